package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/bwmarrin/discordgo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/uclaacm/bruinbot/internal/config"
	"github.com/uclaacm/bruinbot/internal/infra/database"
	"github.com/uclaacm/bruinbot/internal/infra/gateway"
	"github.com/uclaacm/bruinbot/internal/infra/repository"
	"github.com/uclaacm/bruinbot/internal/present/discordcmd"
	"github.com/uclaacm/bruinbot/internal/present/rest"
	"github.com/uclaacm/bruinbot/internal/service"
	"github.com/uclaacm/bruinbot/internal/telemetry"
	"github.com/uclaacm/bruinbot/internal/usecase"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	if conf.Server.EnableTrace {
		shutdown, err := telemetry.Init(ctx, "bruinbot", conf.Server.TraceEndpoint)
		if err != nil {
			slog.Error("failed to init tracing", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer shutdown(ctx)
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		slog.Error("failed to connect database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := database.MigratePostgres(db); err != nil {
		slog.Error("failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rdb := database.NewRedis(conf.Server.RedisAddr, "", conf.Server.RedisDB)
	mc := database.NewMemcached(conf.Server.MemcachedAddr)

	awsConf, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(conf.SES.Region))
	if err != nil {
		slog.Error("failed to load aws config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	mailer := gateway.NewSESMailer(sesv2.NewFromConfig(awsConf), conf.SES.Sender, conf.Discord.ServerName)

	session, err := discordgo.New("Bot " + conf.Discord.Token)
	if err != nil {
		slog.Error("failed to create discord session", slog.String("error", err.Error()))
		os.Exit(1)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsMessageContent

	directory := gateway.NewDiscordGateway(session, conf.Discord.GuildID, conf.Policy.Roles)
	signals := service.NewSignalService(rdb)

	memberRepo := repository.NewMemberRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	verification := usecase.NewVerificationUsecase(memberRepo, verificationRepo, directory, mailer, signals, conf.Policy)
	profile := usecase.NewProfileUsecase(memberRepo, directory, conf.Policy)
	roles := usecase.NewRoleUsecase(memberRepo, directory, conf.Policy)
	audit := usecase.NewAuditUsecase(memberRepo, directory, signals, conf.Policy)
	stats := usecase.NewStatsUsecase(statsRepo, mc)
	messages := usecase.NewMessageUsecase(messageRepo)

	router := discordcmd.NewRouter(
		conf.Discord.CommandPrefix,
		verification, profile, roles, audit, stats, messages,
		directory,
	)
	router.Attach(session)

	if err := session.Open(); err != nil {
		slog.Error("failed to open discord session", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer session.Close()
	slog.Info("discord session open", slog.String("guild", conf.Discord.GuildID))

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	handler := rest.NewHandler(profile, stats, signals)
	handler.RegisterRoutes(e)

	go func() {
		if err := e.Start(conf.Server.AdminAddr); err != nil {
			slog.Error("ops server stopped", slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	if err := e.Shutdown(ctx); err != nil {
		slog.Error("failed to stop ops server", slog.String("error", err.Error()))
	}
}
