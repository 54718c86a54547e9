package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"real-time-dm-api/config"
	"real-time-dm-api/config/common"
	"real-time-dm-api/config/logger"
	"real-time-dm-api/security"
)

const version = "0.1.0"

func main() {
	app := &cli.App{
		Name:    "real-time-dm-api",
		Usage:   "Direct messaging API with live delivery",
		Version: version,
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			tokenCommand(),
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP and websocket server",
		Action: func(c *cli.Context) error {
			return config.RunServer(common.NewViper())
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create or update the database schema",
		Action: func(c *cli.Context) error {
			cfg := common.NewViper()
			logDir, _ := cfg.GetLogConfig()
			db, err := config.NewDB(cfg, logger.NewLogger(logDir))
			if err != nil {
				return err
			}
			defer db.Close()
			return db.Migrate()
		},
	}
}

// tokenCommand signs a token for local testing against JWT_SECRET.
func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:      "token",
		Usage:     "Print a signed access token for a user id",
		ArgsUsage: "USER_ID",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "ttl",
				Usage: "Token lifetime",
				Value: 24 * time.Hour,
			},
		},
		Action: func(c *cli.Context) error {
			userID := c.Args().First()
			if userID == "" {
				return cli.Exit("missing USER_ID", 1)
			}
			token, err := security.NewJWT(common.NewViper()).GenerateToken(userID, c.Duration("ttl"))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
}
