package config

import (
	"github.com/sirupsen/logrus"
	"real-time-dm-api/config/common"
)

func NewLogger(cfg *common.Config) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	_, level := cfg.GetLogConfig()
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		log.WithError(err).Warnf("Unknown log level %q, using info", level)
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}
