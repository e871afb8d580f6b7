package cmd

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/frahmantamala/geofence-security/internal"
	"github.com/frahmantamala/geofence-security/internal/core/events"
	"github.com/frahmantamala/geofence-security/internal/report"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const testConfig = `
env: development
http_server:
  port: 9090
  allowed_origins: "*"
  read_header_timeout: 5s
  read_timeout: 15s
database:
  source: postgres://localhost:5432/geofence_test
  max_open_conns: 10
  max_idle_conns: 2
  conn_max_lifetime: 30m
  conn_max_idle_time: 5m
security:
  access_token_secret: access-secret-access-secret-0123456789
  refresh_token_secret: refresh-secret-refresh-secret-0123456789
  access_token_duration: 15m
  refresh_token_duration: 168h
  bcrypt_cost: 10
redis:
  addr: localhost:6379
reports:
  workers: 4
  queue_size: 10
  job_timeout: 30s
observability:
  logging:
    level: info
    format: json
`

var _ = Describe("loadConfig", func() {
	It("reads config.yml from the given directory", func() {
		dir := GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(testConfig), 0o600)).To(Succeed())

		cfg, err := loadConfig(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Port).To(Equal(9090))
		Expect(cfg.Database.Source).To(Equal("postgres://localhost:5432/geofence_test"))
		Expect(cfg.Security.AccessTokenDuration).To(Equal(15 * time.Minute))
		Expect(cfg.Redis.Enabled()).To(BeTrue())
		Expect(cfg.Storage.Enabled()).To(BeFalse())
		Expect(cfg.Reports.Workers).To(Equal(4))
		Expect(cfg.Reports.JobTimeout).To(Equal(30 * time.Second))
	})

	It("fails when the config file is missing", func() {
		_, err := loadConfig(GinkgoT().TempDir())
		Expect(err).To(HaveOccurred())
	})

	It("rejects short token secrets", func() {
		dir := GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(testConfig), 0o600)).To(Succeed())
		Expect(os.Setenv("ENV_SECURITY_ACCESS_TOKEN_SECRET", "short")).To(Succeed())
		DeferCleanup(os.Unsetenv, "ENV_SECURITY_ACCESS_TOKEN_SECRET")

		_, err := loadConfig(dir)
		Expect(err).To(MatchError(ContainSubstring("access token secret")))
	})
})

var _ = Describe("migrationCommand", func() {
	AfterEach(func() {
		migrateRollback = false
		migrateStatus = false
		migrateTo = 0
	})

	It("migrates up by default", func() {
		command, args := migrationCommand(0)
		Expect(command).To(Equal("up"))
		Expect(args).To(BeEmpty())
	})

	It("rolls back one version with --rollback", func() {
		migrateRollback = true
		command, _ := migrationCommand(0)
		Expect(command).To(Equal("down"))
	})

	It("prints status with --status", func() {
		migrateStatus = true
		command, _ := migrationCommand(0)
		Expect(command).To(Equal("status"))
	})

	It("picks the direction for --to from the applied version", func() {
		migrateTo = 20250101000002

		command, args := migrationCommand(20250101000004)
		Expect(command).To(Equal("down-to"))
		Expect(args).To(ConsistOf("20250101000002"))

		command, args = migrationCommand(20250101000001)
		Expect(command).To(Equal("up-to"))
		Expect(args).To(ConsistOf("20250101000002"))
	})
})

var _ = Describe("flag overrides", func() {
	It("prefers flag values that are set", func() {
		Expect(getIntFlag(8, 2)).To(Equal(8))
		Expect(getIntFlag(0, 2)).To(Equal(2))
		Expect(getStringFlag("custom", "geofence:notifications")).To(Equal("custom"))
		Expect(getStringFlag("", "geofence:notifications")).To(Equal("geofence:notifications"))
	})
})

var _ = Describe("sampleEvent", func() {
	It("builds typed domain events", func() {
		Expect(sampleEvent(events.EventTypeAlertResolved)).To(BeAssignableToTypeOf(&events.AlertResolvedEvent{}))
		Expect(sampleEvent(events.EventTypeNotificationSent).EventType()).To(Equal(events.EventTypeNotificationSent))
		Expect(sampleEvent(events.EventTypeReportGenerated).EventType()).To(Equal(events.EventTypeReportGenerated))
	})

	It("falls back to a bare event for unknown types", func() {
		e := sampleEvent("custom.ping")
		Expect(e.EventType()).To(Equal("custom.ping"))
		Expect(e.Payload()).To(HaveKeyWithValue("source", "cli-command"))
	})
})

var _ = Describe("newArtifactStore", func() {
	It("uses the local directory when no endpoint is configured", func() {
		dir := GinkgoT().TempDir()
		store, err := newArtifactStore(context.Background(), internal.StorageConfig{LocalDir: dir})
		Expect(err).NotTo(HaveOccurred())
		Expect(store).To(BeAssignableToTypeOf(&report.LocalStore{}))
	})
})
