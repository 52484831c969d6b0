package main

import (
	"net/http"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"socialapp/internal/app"
	"socialapp/internal/config"
	"socialapp/internal/middleware"
	"socialapp/internal/modules/admin"
	"socialapp/internal/modules/auth"
	"socialapp/internal/modules/comment"
	"socialapp/internal/modules/like"
	"socialapp/internal/modules/post"
	"socialapp/internal/modules/reclaim"
	"socialapp/internal/modules/upload"
	"socialapp/internal/pkg/i18n"
	jwtsvc "socialapp/internal/pkg/jwt"
	"socialapp/internal/repository"
)

type deps struct {
	cfg     *config.Config
	db      *gorm.DB
	stores  *app.Stores
	sweeper *reclaim.Sweeper
	limiter *middleware.IPRateLimiter
	log     *zap.Logger
}

func newRouter(d deps) *gin.Engine {
	userRepo := repository.NewUserRepository(d.db)
	postRepo := repository.NewPostRepository(d.db)
	fileRepo := repository.NewFileRepository(d.db)
	commentRepo := repository.NewCommentRepository(d.db)
	likeRepo := repository.NewLikeRepository(d.db)

	j := jwtsvc.New(d.cfg.JWTSecret, d.cfg.JWTTTL)

	uploadService := upload.NewService(fileRepo, d.stores.Posts, d.log.Named("upload"), d.cfg.MaxUploadSize)
	authService := auth.NewService(userRepo, j, d.stores.Avatars, d.log.Named("auth"), d.cfg.MaxUploadSize)
	postService := post.NewService(postRepo, uploadService, d.stores.Avatars, d.log.Named("post"))
	commentService := comment.NewService(commentRepo, postRepo, d.stores.Avatars)
	likeService := like.NewService(likeRepo, postRepo)
	adminService := admin.NewService(userRepo, postService, commentService, fileRepo, d.sweeper, d.log.Named("admin"))

	uploadHandler := upload.NewHandler(uploadService)
	authHandler := auth.NewHandler(authService)
	postHandler := post.NewHandler(postService)
	commentHandler := comment.NewHandler(commentService)
	likeHandler := like.NewHandler(likeService)
	adminHandler := admin.NewHandler(adminService)

	r := gin.New()
	r.MaxMultipartMemory = d.cfg.MaxUploadSize
	r.Use(
		middleware.RequestLogger(d.log.Named("http")),
		middleware.ErrorLogger(d.log.Named("http")),
		middleware.CORS(d.cfg.CORSAllowedOrigins),
		middleware.Metrics(),
		middleware.Locale(i18n.Parse(d.cfg.DefaultLocale)),
	)

	if d.cfg.StorageDriver == config.StorageDisk {
		r.Use(static.Serve(d.cfg.StaticURLBase+app.PostsPath, static.LocalFile(d.cfg.UploadDir, false)))
		r.Use(static.Serve(d.cfg.StaticURLBase+app.AvatarsPath, static.LocalFile(d.cfg.AvatarDir, false)))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	if d.limiter != nil {
		v1.Use(d.limiter.Handler())
	}
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		postHandler.RegisterPublicRoutes(v1)
		commentHandler.RegisterPublicRoutes(v1)
		likeHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j), middleware.RejectBanned(userRepo))
		{
			authHandler.RegisterProtectedRoutes(protected)
			uploadHandler.RegisterRoutes(protected)
			postHandler.RegisterProtectedRoutes(protected)
			commentHandler.RegisterProtectedRoutes(protected)
			likeHandler.RegisterProtectedRoutes(protected)

			adminGroup := protected.Group("/admin")
			adminGroup.Use(middleware.AdminOnly())
			adminHandler.RegisterRoutes(adminGroup)
		}
	}

	return r
}
