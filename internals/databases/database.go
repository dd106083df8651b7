package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"sekolahku_backend/internals/configs"
	paymentModel "sekolahku_backend/internals/features/finance/payments/model"
	promiseModel "sekolahku_backend/internals/features/finance/promises/model"
	tariffModel "sekolahku_backend/internals/features/finance/tariffs/model"
	enrollmentModel "sekolahku_backend/internals/features/school/enrollments/model"
	studentModel "sekolahku_backend/internals/features/school/students/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Connecting to PostgreSQL...")

	// Keep PreferSimpleProtocol=true for PgBouncer transaction pooling.
	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=sekolahku&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// MigrateOwnedTables migrates only the tables this service owns. Student,
// guardian and enrollment CRUD belong to other services; we migrate the
// minimal read models too so a fresh environment can boot standalone.
func MigrateOwnedTables() {
	if err := DB.AutoMigrate(
		&tariffModel.TariffModel{},
		&paymentModel.PaymentModel{},
		&paymentModel.PaymentGatewayEventModel{},
		&promiseModel.PaymentPromiseModel{},
		&enrollmentModel.EnrollmentModel{},
		&studentModel.StudentModel{},
		&studentModel.GuardianModel{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	// raw-SQL table used by the auth blacklist helper
	if err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS token_blacklist (
			token      TEXT PRIMARY KEY,
			expired_at TIMESTAMPTZ NOT NULL,
			deleted_at TIMESTAMPTZ
		)
	`).Error; err != nil {
		log.Fatalf("❌ token_blacklist migration failed: %v", err)
	}
}

func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
