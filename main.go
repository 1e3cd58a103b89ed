package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gitee.com/czyczk/evote-ballot-engine/internal/appinit"
	"gitee.com/czyczk/evote-ballot-engine/internal/background"
	"gitee.com/czyczk/evote-ballot-engine/internal/controller"
	"gitee.com/czyczk/evote-ballot-engine/internal/global"
	"gitee.com/czyczk/evote-ballot-engine/internal/messaging"
	"gitee.com/czyczk/evote-ballot-engine/internal/service"
	"gitee.com/czyczk/evote-ballot-engine/internal/utils/idutils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

func main() {
	// Values from .env become defaults of the flags bound to environment variables
	if err := godotenv.Load(); err != nil && !os.IsNotExist(errors.Cause(err)) {
		log.Warnln(errors.Wrap(err, "无法读取 .env 文件"))
	}

	var configPath, dsn string
	var electionID uint64
	var autoMigrate bool

	confFlag := &cli.StringFlag{
		Name:        "conf",
		Aliases:     []string{"c"},
		Value:       "serve.yaml",
		EnvVars:     []string{"EVOTE_CONF"},
		Destination: &configPath,
	}
	dsnFlag := &cli.StringFlag{
		Name:        "dsn",
		Usage:       "Overrides the database DSN in the config file",
		EnvVars:     []string{"EVOTE_DB_DSN"},
		Destination: &dsn,
	}

	app := &cli.App{
		Name:  "evote",
		Usage: "Voter credential and anonymous ballot engine",
		Commands: []*cli.Command{
			{
				Name:    "serve",
				Aliases: []string{"s"},
				Usage:   "Start as server",
				Flags: []cli.Flag{
					confFlag,
					dsnFlag,
					&cli.BoolFlag{
						Name:        "migrate",
						Usage:       "Migrate the database before serving",
						Destination: &autoMigrate,
					},
				},
				Action: getServeFunc(&configPath, &dsn, &autoMigrate),
			},
			{
				Name:    "migrate",
				Aliases: []string{"m"},
				Usage:   "Create or update the tables and the ledger triggers",
				Flags:   []cli.Flag{confFlag, dsnFlag},
				Action:  getMigrateFunc(&configPath, &dsn),
			},
			{
				Name:    "audit",
				Aliases: []string{"a"},
				Usage:   "Verify the ballot chain of a closed election",
				Flags: []cli.Flag{
					confFlag,
					dsnFlag,
					&cli.Uint64Flag{
						Name:        "election",
						Aliases:     []string{"e"},
						Required:    true,
						Destination: &electionID,
					},
				},
				Action: getAuditFunc(&configPath, &dsn, &electionID),
			},
		},
	}

	// Run the cli helper
	if err := app.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}

// loadConfigAndOpenDatabase loads `serve.yaml`, sets up the logger and opens the credential store.
func loadConfigAndOpenDatabase(configPath, dsn string) (*appinit.ServerInfo, *gorm.DB, error) {
	serverInfo, err := appinit.LoadServerInfo(configPath, dsn)
	if err != nil {
		return nil, nil, err
	}

	if err = appinit.SetupLogger(serverInfo.Log); err != nil {
		return nil, nil, err
	}
	global.ShowTimingLogs = serverInfo.ShowTimingLogs

	db, err := appinit.OpenDatabase(serverInfo.Database)
	if err != nil {
		return nil, nil, err
	}

	return &serverInfo, db, nil
}

func getMigrateFunc(configPath, dsn *string) func(c *cli.Context) error {
	return func(c *cli.Context) error {
		_, db, err := loadConfigAndOpenDatabase(*configPath, *dsn)
		if err != nil {
			return err
		}
		defer appinit.CloseDatabase(db)

		if err = appinit.MigrateDatabase(db); err != nil {
			return err
		}

		log.Infoln("数据库迁移完成。")
		return nil
	}
}

func getAuditFunc(configPath, dsn *string, electionID *uint64) func(c *cli.Context) error {
	return func(c *cli.Context) error {
		_, db, err := loadConfigAndOpenDatabase(*configPath, *dsn)
		if err != nil {
			return err
		}
		defer appinit.CloseDatabase(db)

		auditSvc := &service.AuditService{ServiceInfo: &service.Info{DB: db}}
		trail, err := auditSvc.AuditTrail(*electionID)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(trail, "", "  ")
		if err != nil {
			return errors.Wrap(err, "无法序列化审计结果")
		}
		fmt.Println(string(out))

		if !trail.ChainValid {
			return cli.Exit("哈希链校验失败", 2)
		}

		return nil
	}
}

func getServeFunc(configPath, dsn *string, autoMigrate *bool) func(c *cli.Context) error {
	serveFunc := func(c *cli.Context) error {
		serverInfo, db, err := loadConfigAndOpenDatabase(*configPath, *dsn)
		if err != nil {
			return err
		}
		defer appinit.CloseDatabase(db)

		if *autoMigrate {
			if err = appinit.MigrateDatabase(db); err != nil {
				return err
			}
		}

		// Create the generators shared by every service
		tokenGen, err := idutils.NewSecureTokenGenerator(serverInfo.Tokens.NumBytes)
		if err != nil {
			return err
		}

		idGen, err := idutils.NewSnowflakeGenerator(*serverInfo.Tokens.NodeID)
		if err != nil {
			return err
		}

		serviceInfo := &service.Info{
			DB:       db,
			TokenGen: tokenGen,
			IDGen:    idGen,
		}

		// Instantiate services
		tokenSvc := &service.TokenService{ServiceInfo: serviceInfo}
		bridgeSvc := &service.BridgeService{ServiceInfo: serviceInfo}
		ledgerSvc := &service.LedgerService{ServiceInfo: serviceInfo}
		auditSvc := &service.AuditService{ServiceInfo: serviceInfo}
		resultsSvc := &service.ResultsService{ServiceInfo: serviceInfo}
		receiptSvc := &service.ReceiptService{ServiceInfo: serviceInfo}

		// Prepare the audit relay if enabled
		var relayServer *background.AuditRelayServer
		if relayInfo := serverInfo.AuditRelay; relayInfo != nil && relayInfo.Enabled {
			conn, err := messaging.Dial(relayInfo.URL, 5)
			if err != nil {
				return err
			}

			publisher, err := messaging.NewRabbitMQPublisher(conn, relayInfo.Exchange)
			if err != nil {
				_ = conn.Close()
				return err
			}
			defer publisher.Close()

			relayServer = background.NewAuditRelayServer(serviceInfo, publisher, relayInfo.RoutingKey, relayInfo.Schedule, relayInfo.BatchSize)
			if err = relayServer.Start(); err != nil {
				return err
			}
		}

		// Instantiate controllers
		pingPongController := &controller.PingPongController{GroupName: "/"}

		tokenController := &controller.TokenController{
			GroupName: "/tokens",
			TokenSvc:  tokenSvc,
			BridgeSvc: bridgeSvc,
		}

		electionController := &controller.ElectionController{
			GroupName:  "/elections",
			LedgerSvc:  ledgerSvc,
			AuditSvc:   auditSvc,
			ResultsSvc: resultsSvc,
		}

		receiptController := &controller.ReceiptController{
			GroupName:  "/receipts",
			ReceiptSvc: receiptSvc,
		}

		// Register controller handlers
		router := gin.Default()
		router.Use(controller.RequestIDMiddleware(), controller.CORSMiddleware())
		apiv1Group := router.Group("/api/v1")
		for _, ctrl := range []controller.Controller{pingPongController, tokenController, electionController, receiptController} {
			if err = controller.RegisterHandlers(apiv1Group, ctrl); err != nil {
				return err
			}
		}

		// Start the HTTP server
		httpServer := &http.Server{
			Addr:    fmt.Sprintf(":%v", serverInfo.Port),
			Handler: router,
		}

		chanError := make(chan error, 1)
		go func() {
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				chanError <- errors.Wrap(err, "无法启动 HTTP 服务器")
			}
		}()
		log.Infof("HTTP 服务器正在监听端口 %v。", serverInfo.Port)

		// Listen Ctrl+C signals. On receiving a signal stops the app elegantly
		chanQuit := make(chan os.Signal, 1)
		signal.Notify(chanQuit, os.Interrupt, syscall.SIGTERM)
		select {
		case err := <-chanError:
			return err
		case <-chanQuit:
			log.Infoln("收到退出信号，正在退出程序...")

			// Stop the HTTP server elegantly
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			log.Infoln("正在停止 HTTP 服务器...")
			if err := httpServer.Shutdown(ctx); err != nil {
				return errors.Wrap(err, "无法正常停止 HTTP 服务器")
			}

			// Stop the audit relay if enabled
			if relayServer != nil {
				log.Infoln("正在停止审计转发服务器...")
				wg, err := relayServer.Stop()
				if err != nil {
					return err
				}
				wg.Wait()
			}
		}

		return nil
	}

	return serveFunc
}
