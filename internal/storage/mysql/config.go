package mysql

import (
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Config holds MySQL connection settings
type Config struct {
	// DSN is a full driver DSN; when set it takes precedence over the fields below
	DSN string

	Host     string
	Port     string
	User     string
	Password string
	Database string

	// Pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns sensible defaults for MySQL configuration
func DefaultConfig() Config {
	return Config{
		Host:            "localhost",
		Port:            "3306",
		MaxOpenConns:    25,
		MaxIdleConns:    25,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

// FormatDSN builds the driver DSN. Times are always parsed into time.Time in UTC.
func (c Config) FormatDSN() (string, error) {
	var dc *mysql.Config
	if c.DSN != "" {
		parsed, err := mysql.ParseDSN(c.DSN)
		if err != nil {
			return "", err
		}
		dc = parsed
	} else {
		dc = mysql.NewConfig()
		dc.User = c.User
		dc.Passwd = c.Password
		dc.Net = "tcp"
		dc.Addr = net.JoinHostPort(c.Host, c.Port)
		dc.DBName = c.Database
	}

	dc.ParseTime = true
	dc.Loc = time.UTC
	if dc.Params == nil {
		dc.Params = map[string]string{}
	}
	if _, ok := dc.Params["charset"]; !ok {
		dc.Params["charset"] = "utf8mb4"
	}
	return dc.FormatDSN(), nil
}
