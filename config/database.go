package config

import (
	"fmt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
	"real-time-dm-api/config/common"
	"real-time-dm-api/config/logger"
	"real-time-dm-api/entity"
	"time"
)

type DBConfig struct {
	*gorm.DB
	*logger.AppLogger
}

func NewDB(config *common.Config, log *logger.AppLogger) (*DBConfig, error) {
	db, err := initDatabase(config, log)
	if err != nil {
		return nil, err
	}
	return &DBConfig{DB: db, AppLogger: log}, nil
}

func (db *DBConfig) GetDB() *gorm.DB {
	return db.DB
}

// Migrate creates or updates the tables, including the unique index on the
// canonical participant pair.
func (db *DBConfig) Migrate() error {
	var user entity.User
	var chat entity.Chat
	var message entity.Message
	var seen entity.ChatSeen
	if err := db.DB.AutoMigrate(&user, &chat, &message, &seen); err != nil {
		db.Http.Error.Error().Err(err).Msg("failed run migration")
		return fmt.Errorf("failed run migration: %w", err)
	}
	db.Http.Info.Info().Msg("Migration finished")
	return nil
}

func (db *DBConfig) Close() error {
	conn, err := db.DB.DB()
	if err != nil {
		return err
	}
	return conn.Close()
}

func initDatabase(cfg *common.Config, log *logger.AppLogger) (*gorm.DB, error) {
	dbHost, dbUser, dbPassword, dbName, dbPort := cfg.GetDatabaseConfig()
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		dbHost, dbUser, dbPassword, dbName, dbPort, cfg.GetDatabaseTimezone(),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   "t_",
			SingularTable: true,
		},
		TranslateError: true,
	})
	if err != nil {
		log.Http.Error.Error().Err(err).Msg("failed to connect to database")
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	conn, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	log.Http.Info.Info().Str("host", dbHost).Str("database", dbName).Msg("Connection Opened to Database")

	conn.SetMaxIdleConns(10)
	conn.SetMaxOpenConns(100)
	conn.SetConnMaxLifetime(time.Second * time.Duration(300))
	return db, nil
}
