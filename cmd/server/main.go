package main

import (
	"log"

	"chordsmith/internal/api"
	"chordsmith/internal/middleware"
	"chordsmith/internal/repository"
	"chordsmith/internal/service"
	"chordsmith/pkg/config"
	"chordsmith/pkg/db"
	"chordsmith/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	// 初始化配置
	if err := config.Init(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	if err := logger.InitLogger(config.GlobalConfig.Log.Level, config.GlobalConfig.Log.ProductionMode); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// 初始化数据库连接，句柄注入各层
	database, err := db.InitDB(config.GlobalConfig.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	userRepo := repository.NewUserRepository(database)
	songRepo := repository.NewSongRepository(database)
	chordRepo := repository.NewChordRepository(database)
	folderRepo := repository.NewFolderRepository(database)
	shareRepo := repository.NewShareRepository(database)

	authService := service.NewAuthService(userRepo)
	songService := service.NewSongService(songRepo)
	chordService := service.NewChordService(chordRepo)
	folderService := service.NewFolderService(folderRepo)
	shareService := service.NewShareService(shareRepo, userRepo, songRepo, chordRepo)

	authHandler := api.NewAuthHandler(authService)
	songHandler := api.NewSongHandler(songService)
	chordHandler := api.NewChordHandler(chordService)
	folderHandler := api.NewFolderHandler(folderService, songService)
	shareHandler := api.NewShareHandler(shareService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.GinZapLogger())

	// 公开路由
	r.POST("/api/auth/register", authHandler.Register)
	r.POST("/api/auth/login", authHandler.Login)

	// 受保护的路由
	protected := r.Group("/api", middleware.AuthMiddleware(userRepo))
	{
		protected.POST("/songs", songHandler.CreateSong)
		protected.GET("/songs", songHandler.GetSongs)
		protected.GET("/songs/:song_id", songHandler.GetSong)
		protected.PUT("/songs/:song_id", songHandler.UpdateSong)
		protected.DELETE("/songs/:song_id", songHandler.DeleteSong)

		protected.POST("/chords", chordHandler.CreateChord)
		protected.GET("/chords", chordHandler.GetChords)
		protected.GET("/chords/:chord_id", chordHandler.GetChord)
		protected.PUT("/chords/:chord_id", chordHandler.UpdateChord)
		protected.DELETE("/chords/:chord_id", chordHandler.DeleteChord)

		protected.POST("/folders", folderHandler.CreateFolder)
		protected.GET("/folders", folderHandler.GetFolders)
		protected.GET("/folders/:folder_id/songs", folderHandler.GetFolderSongs)
		protected.DELETE("/folders/:folder_id", folderHandler.DeleteFolder)

		protected.POST("/shares/song", shareHandler.ShareSong)
		protected.POST("/shares/chord", shareHandler.ShareChord)
		protected.GET("/shares/incoming", shareHandler.GetIncomingShares)
		protected.POST("/shares/:share_id/accept", shareHandler.AcceptShare)
		protected.POST("/shares/:share_id/reject", shareHandler.RejectShare)
	}

	addr := config.GlobalConfig.Server.Addr
	if addr == "" {
		addr = ":8080"
	}
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
