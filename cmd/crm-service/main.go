package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/AutoLinkCRM/AutoLinkCRM/internal/api"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/common/config"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/common/db"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/common/logger"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/common/server"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/common/tracing"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/customer"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/dashboard"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/followup"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/interaction"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/sale"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/vehicle"
)

var (
	configPath = flag.String("config", "configs/crm-service.json", "配置文件路径")
)

func main() {
	flag.Parse()

	// 加载配置
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 初始化日志
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	// 初始化链路追踪
	tracer, closer, err := tracing.InitTracer(
		cfg.Server.Name,
		cfg.Jaeger.Endpoint,
		cfg.Jaeger.Sampler,
	)
	if err != nil {
		log.Warnf("failed to init tracer: %v", err)
	} else {
		defer closer.Close()
	}
	_ = tracer

	// 连接数据库
	gdb, err := db.NewMySQL(
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Database,
		cfg.Database.MaxIdle,
		cfg.Database.MaxOpen,
	)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// 建表 + 种子库存（库存非空时跳过）
	if err := gdb.AutoMigrate(
		&customer.Customer{},
		&vehicle.Vehicle{},
		&sale.Sale{},
		&followup.FollowUp{},
		&interaction.Interaction{},
	); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	if err := vehicle.SeedDefault(context.Background(), gdb); err != nil {
		log.Fatalf("failed to seed inventory: %v", err)
	}

	// 启动统一的 HTTP 服务模板：JSON API + 运营面板
	if err := server.RunHTTPServer(cfg, log, func(e *gin.Engine) error {
		e.SetHTMLTemplate(dashboard.Templates())
		api.NewHandler(gdb, log).Register(e)
		dashboard.NewHandler(gdb, log).Register(e)
		return nil
	}); err != nil {
		log.Fatalf("crm-service exited with error: %v", err)
	}
}
