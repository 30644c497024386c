//go:build integration
// +build integration

package tests

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// IntegrationSuiteBase provisions a throwaway MySQL database for the HTTP
// integration tests. The suite is skipped entirely when no server is
// reachable, so unit runs stay green without infrastructure.
type IntegrationSuiteBase struct {
	suite.Suite

	adminDB    *sqlx.DB
	DB         *sqlx.DB
	testDBName string
}

type mysqlTestConfig struct {
	host     string
	port     string
	user     string
	password string
	database string
	params   string
}

func loadMySQLTestConfig() mysqlTestConfig {
	appDB := envOrDefault("MYSQL_DATABASE", "crewdesk")
	return mysqlTestConfig{
		host:     envOrDefault("MYSQL_HOST", "127.0.0.1"),
		port:     envOrDefault("MYSQL_PORT", "3306"),
		user:     envOrDefault("MYSQL_ROOT_USER", "root"),
		password: envOrDefault("MYSQL_ROOT_PASSWORD", "root"),
		database: envOrDefault("MYSQL_TEST_DATABASE", appDB+"_test"),
		params:   envOrDefault("MYSQL_PARAMS", "parseTime=true&multiStatements=true"),
	}
}

func (c mysqlTestConfig) dsn(database string) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s",
		c.user, c.password, c.host, c.port, database, c.params)
}

func (s *IntegrationSuiteBase) SetupSuite() {
	cfg := loadMySQLTestConfig()

	adminDB, err := sqlx.Connect("mysql", cfg.dsn(""))
	if err != nil {
		s.T().Skipf("skipping integration suite: could not connect to mysql: %v", err)
	}
	s.adminDB = adminDB
	s.testDBName = cfg.database

	_, err = s.adminDB.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", cfg.database))
	s.Require().NoError(err)

	s.DB, err = sqlx.Connect("mysql", cfg.dsn(cfg.database))
	s.Require().NoError(err)
}

func (s *IntegrationSuiteBase) TearDownSuite() {
	if s.DB != nil {
		s.Require().NoError(s.DB.Close())
	}

	// Only drop databases we created ourselves.
	if s.adminDB != nil && strings.HasSuffix(s.testDBName, "_test") {
		_, err := s.adminDB.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS `%s`", s.testDBName))
		s.Require().NoError(err)
	}

	if s.adminDB != nil {
		s.Require().NoError(s.adminDB.Close())
	}
}

// ResetDatabase drops and recreates the schema so each test starts from a
// clean slate.
func (s *IntegrationSuiteBase) ResetDatabase() {
	t := s.T()
	t.Helper()

	_, err := s.DB.Exec(`
SET FOREIGN_KEY_CHECKS = 0;
DROP TABLE IF EXISTS task_templates;
DROP TABLE IF EXISTS tasks;
DROP TABLE IF EXISTS workspaces;
SET FOREIGN_KEY_CHECKS = 1;
`)
	require.NoError(t, err)

	for _, file := range upMigrations(t) {
		content, readErr := os.ReadFile(file)
		require.NoError(t, readErr)
		_, execErr := s.DB.Exec(string(content))
		require.NoError(t, execErr, "applying %s", filepath.Base(file))
	}
}

// upMigrations lists the *.up.sql files in timestamp order, so the schema
// built here is exactly the one the application migrates to.
func upMigrations(t *testing.T) []string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok)
	root := filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", "..", "..", ".."))

	files, err := filepath.Glob(filepath.Join(root, "db", "migrations", "*.up.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, files, "no migrations found under db/migrations")

	sort.Strings(files)
	return files
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
