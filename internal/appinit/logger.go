package appinit

import (
	"os"

	errors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// SetupLogger configures the standard logrus logger of the process.
func SetupLogger(info LogInfo) error {
	level, err := log.ParseLevel(info.Level)
	if err != nil {
		return errors.Wrap(err, "无法解析日志级别")
	}

	switch info.Format {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return errors.Errorf("不支持的日志格式 %v", info.Format)
	}

	log.SetOutput(os.Stdout)
	log.SetLevel(level)
	return nil
}
