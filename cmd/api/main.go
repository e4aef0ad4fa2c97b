package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	appbook "github.com/xiebiao/library/internal/application/book"
	appborrow "github.com/xiebiao/library/internal/application/borrow"
	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/event"
	"github.com/xiebiao/library/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/response"
)

// main 主程序入口
// 说明：手动依赖注入（wire.go提供编译期注入的等价写法）
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())

	// 2. 初始化Prometheus指标
	metrics.InitMetrics()

	// 3. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 4. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 5. 初始化事件发布器(MQ可选)
	var eventPublisher appborrow.EventPublisher
	if cfg.MQ.Enabled {
		pub, err := event.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
		if err != nil {
			log.Fatalf("初始化事件发布器失败: %v", err)
		}
		defer pub.Close()
		eventPublisher = pub
		fmt.Printf("  - 事件发布: %s (exchange=%s)\n", cfg.MQ.URL, cfg.MQ.Exchange)
	} else {
		eventPublisher = event.NopPublisher{}
	}

	// 6. 依赖注入（手动组装）
	// 学习要点：依赖注入链
	// Repository ← Service ← UseCase ← Handler

	// 基础设施层
	userRepo := mysql.NewUserRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	borrowRepo := mysql.NewBorrowRepository(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
	mailer := appuser.NewLogMailer()

	// 领域层
	userService := user.NewService(userRepo)
	bookService := book.NewService(bookRepo)

	// 应用层
	registerUseCase := appuser.NewRegisterUseCase(userService, mailer, cfg.OTP)
	verifyUseCase := appuser.NewVerifyUseCase(userService)
	resendOTPUseCase := appuser.NewResendOTPUseCase(userService, userRepo, mailer, cfg.OTP)
	loginUseCase := appuser.NewLoginUseCase(userService, jwtManager, sessionStore)
	logoutUseCase := appuser.NewLogoutUseCase(sessionStore)
	refreshTokenUseCase := appuser.NewRefreshTokenUseCase(jwtManager)
	changePasswordUseCase := appuser.NewChangePasswordUseCase(userService, sessionStore)
	profileUseCase := appuser.NewProfileUseCase(userRepo)
	listMembersUseCase := appuser.NewListMembersUseCase(userRepo)
	removeMemberUseCase := appuser.NewRemoveMemberUseCase(userRepo, borrowRepo, txManager)

	createBookUseCase := appbook.NewCreateBookUseCase(bookService)
	getBookUseCase := appbook.NewGetBookUseCase(bookService)
	listBooksUseCase := appbook.NewListBooksUseCase(bookService)
	manageBookUseCase := appbook.NewManageBookUseCase(bookRepo, borrowRepo, txManager)

	borrowBookUseCase := appborrow.NewBorrowBookUseCase(borrowRepo, bookRepo, userRepo, txManager, eventPublisher)
	returnBookUseCase := appborrow.NewReturnBookUseCase(borrowRepo, bookRepo, txManager, eventPublisher)
	listBorrowsUseCase := appborrow.NewListBorrowsUseCase(borrowRepo)

	// 接口层
	userHandler := handler.NewUserHandler(
		registerUseCase, verifyUseCase, resendOTPUseCase,
		loginUseCase, logoutUseCase, refreshTokenUseCase,
		changePasswordUseCase, profileUseCase, listMembersUseCase,
		removeMemberUseCase,
	)
	bookHandler := handler.NewBookHandler(createBookUseCase, getBookUseCase, listBooksUseCase, manageBookUseCase)
	borrowHandler := handler.NewBorrowHandler(borrowBookUseCase, returnBookUseCase, listBorrowsUseCase)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 7. 管理员账号引导(幂等)
	bootstrap := appuser.NewBootstrapUseCase(userRepo)
	if err := bootstrap.EnsureAdmin(context.Background(), cfg.Admin); err != nil {
		log.Fatalf("管理员账号引导失败: %v", err)
	}

	// 8. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.Metrics())

	// 9. 注册路由
	registerRoutes(r, userHandler, bookHandler, borrowHandler, authMiddleware)

	// 10. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("\n🚀 服务启动成功！\n")
	fmt.Printf("   访问地址: http://localhost%s\n", addr)
	fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
	fmt.Printf("   API文档:  http://localhost%s/swagger/index.html\n", addr)
	fmt.Printf("   指标采集: http://localhost%s/metrics\n", addr)
	fmt.Printf("\n按Ctrl+C停止服务\n\n")

	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	borrowHandler *handler.BorrowHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标端点
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API路由组
	v1 := r.Group("/api/v1")
	{
		// 认证模块（公开接口，不需要登录）
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", userHandler.Register)
			auth.POST("/verify", userHandler.Verify)
			auth.POST("/resend", userHandler.ResendOTP)
			auth.POST("/login", userHandler.Login)
			auth.POST("/refresh", userHandler.RefreshToken)
			auth.POST("/logout", authMiddleware.RequireAuth(), userHandler.Logout)
		}

		// 图书模块（浏览公开，无需登录）
		books := v1.Group("/books")
		{
			books.GET("", bookHandler.ListBooks)
			books.GET("/:id", bookHandler.GetBook)
			books.GET("/:id/history", borrowHandler.BookHistory)
		}

		// 借阅模块（需要登录）
		borrows := v1.Group("/borrows")
		borrows.Use(authMiddleware.RequireAuth())
		{
			borrows.POST("", borrowHandler.BorrowBook)
			borrows.PUT("/:id/return", borrowHandler.ReturnBook)
			borrows.GET("/my", borrowHandler.MyBorrows)
		}

		// 用户模块（需要登录）
		users := v1.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/me", userHandler.Me)
			users.PUT("/password", userHandler.ChangePassword)
		}

		// 管理模块（需要管理员角色）
		admin := v1.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireAdmin())
		{
			admin.POST("/books", bookHandler.CreateBook)
			admin.PUT("/books/:id", bookHandler.UpdateBook)
			admin.DELETE("/books/:id", bookHandler.DeleteBook)
			admin.GET("/borrows", borrowHandler.ListBorrows)
			admin.GET("/members", userHandler.ListMembers)
			admin.DELETE("/members/:id", userHandler.RemoveMember)
		}
	}
}
