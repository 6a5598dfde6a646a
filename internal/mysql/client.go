package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	driver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// Credentials hold everything needed to reach the MySQL server. They are
// passed around as plain data and never rendered into log output or error
// messages.
type Credentials struct {
	Host     string
	Port     int
	User     string
	Password string
}

// Addr returns the host:port pair for the server.
func (c Credentials) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ConnectionError occurs when the MySQL server rejects the credentials or
// cannot be reached at all.
type ConnectionError struct {
	Addr  string
	User  string
	Cause error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot connect to MySQL [addr=%s, user=%s]: %v", e.Addr, e.User, e.Cause)
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// NewConnectionError creates a new ConnectionError.
func NewConnectionError(addr, user string, cause error) *ConnectionError {
	return &ConnectionError{
		Addr:  addr,
		User:  user,
		Cause: cause,
	}
}

// Verifier checks that MySQL credentials actually work before any dump is
// attempted.
type Verifier interface {
	// Verify opens a short-lived connection with the given credentials and
	// pings the server. A failure means the dump would fail too.
	Verify(ctx context.Context, creds Credentials, database string) error
}

// Client verifies MySQL connectivity over a short-lived connection.
type Client struct {
	logger  *zap.Logger
	timeout time.Duration
}

// NewClient creates a MySQL client for credential checks.
func NewClient(logger *zap.Logger) *Client {
	return &Client{
		logger:  logger,
		timeout: 10 * time.Second,
	}
}

// Verify connects to the server with the given credentials, selecting the
// target database, and pings it. The connection is closed before returning.
func (c *Client) Verify(ctx context.Context, creds Credentials, database string) error {
	cfg := driver.NewConfig()
	cfg.User = creds.User
	cfg.Passwd = creds.Password
	cfg.Net = "tcp"
	cfg.Addr = creds.Addr()
	cfg.DBName = database
	cfg.Timeout = c.timeout

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return NewConnectionError(cfg.Addr, creds.User, err)
	}
	defer db.Close()

	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return NewConnectionError(cfg.Addr, creds.User, err)
	}

	c.logger.Debug("MySQL credentials verified",
		zap.String("addr", cfg.Addr),
		zap.String("user", creds.User),
		zap.String("database", database),
	)

	return nil
}
