package appinit

import (
	"fmt"
	"io/ioutil"

	"gitee.com/czyczk/evote-ballot-engine/internal/utils/idutils"
	errors "github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// ServerInfo is the Go struct for contents in serve.yaml.
type ServerInfo struct {
	Port           int             `yaml:"port"`
	ShowTimingLogs bool            `yaml:"showTimingLogs"`
	Log            LogInfo         `yaml:"log"`
	Database       DatabaseInfo    `yaml:"database"`
	Tokens         TokenInfo       `yaml:"tokens"`
	AuditRelay     *AuditRelayInfo `yaml:"auditRelay"` // Optional. The relay is disabled if absent.
}

// LogInfo configures logrus.
type LogInfo struct {
	Level  string `yaml:"level"`  // One of the logrus level names
	Format string `yaml:"format"` // "text" or "json"
}

// DatabaseInfo contains info needed to open the credential store.
type DatabaseInfo struct {
	Driver       string `yaml:"driver"` // "mysql", "postgres" or "sqlite"
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"maxOpenConns"` // Ignored for SQLite, which always uses a single connection
	MaxIdleConns int    `yaml:"maxIdleConns"`
}

// TokenInfo configures the generators of bearer values and record IDs.
type TokenInfo struct {
	NumBytes int    `yaml:"numBytes"` // Random bytes per ballot credential and receipt
	NodeID   *int64 `yaml:"nodeID"`   // Snowflake node number of this instance. 1 if absent.
}

// AuditRelayInfo configures the publication of audit records to RabbitMQ.
type AuditRelayInfo struct {
	Enabled    bool   `yaml:"enabled"`
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routingKey"`
	Schedule   string `yaml:"schedule"` // A cron spec, e.g. "@every 10s"
	BatchSize  int    `yaml:"batchSize"`
}

// LoadServerInfo loads the server config file (in YAML) which contains info needed to start a server.
//
// Parameters:
//
//	the path to the config file
//	a DSN replacing the one in the file (ignored if empty)
//
// Returns:
//
//	the `ServerInfo` struct containing the info needed to start a server
func LoadServerInfo(configFilePath string, dsnOverride string) (ret ServerInfo, err error) {
	yamlStr, err := ioutil.ReadFile(configFilePath)
	if err != nil {
		err = errors.Wrap(err, "读取服务器配置文件失败")
		return
	}

	ret, err = parseServerInfo(yamlStr, dsnOverride)
	return
}

// ParseServerInfo parses the contents of serve.yaml, fills in the defaults and validates the result.
func ParseServerInfo(yamlStr []byte) (ServerInfo, error) {
	return parseServerInfo(yamlStr, "")
}

func parseServerInfo(yamlStr []byte, dsnOverride string) (ret ServerInfo, err error) {
	err = yaml.Unmarshal(yamlStr, &ret)
	if err != nil {
		err = errors.Wrap(err, "解析 YAML 文件时出现错误")
		return
	}

	if dsnOverride != "" {
		ret.Database.DSN = dsnOverride
	}

	ret.applyDefaults()
	err = ret.validate()
	return
}

func (info *ServerInfo) applyDefaults() {
	if info.Port == 0 {
		info.Port = 8080
	}
	if info.Log.Level == "" {
		info.Log.Level = "info"
	}
	if info.Log.Format == "" {
		info.Log.Format = "text"
	}
	if info.Database.Driver == "" {
		info.Database.Driver = "sqlite"
	}
	if info.Tokens.NumBytes == 0 {
		info.Tokens.NumBytes = idutils.DefaultTokenBytes
	}
	if info.Tokens.NodeID == nil {
		nodeID := int64(1)
		info.Tokens.NodeID = &nodeID
	}
	if relay := info.AuditRelay; relay != nil {
		if relay.Exchange == "" {
			relay.Exchange = "evote.audit"
		}
		if relay.RoutingKey == "" {
			relay.RoutingKey = "audit.record"
		}
		if relay.Schedule == "" {
			relay.Schedule = "@every 10s"
		}
		if relay.BatchSize == 0 {
			relay.BatchSize = 100
		}
	}
}

func (info *ServerInfo) validate() error {
	switch info.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("不支持的数据库驱动 %v", info.Database.Driver)
	}

	if info.Database.DSN == "" {
		return fmt.Errorf("未指定数据库连接字符串")
	}

	if info.Tokens.NumBytes < idutils.MinTokenBytes {
		return fmt.Errorf("令牌随机字节数至少为 %v", idutils.MinTokenBytes)
	}

	if info.AuditRelay != nil && info.AuditRelay.Enabled && info.AuditRelay.URL == "" {
		return fmt.Errorf("已启用审计转发但未指定 RabbitMQ 地址")
	}

	return nil
}
