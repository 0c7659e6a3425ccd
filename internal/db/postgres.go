package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/eol-ict/onlyoo-backend/internal/logger"
	"github.com/eol-ict/onlyoo-backend/internal/types"
	"github.com/eol-ict/onlyoo-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "onlyoo", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		serviceLog.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.Section{},
		&types.Choice{},
		&types.Rule{},
		&types.Alert{},
		&types.Quote{},
		&types.Selection{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	constraints := []struct {
		name string
		stmt string
	}{
		{
			name: "fk_matrix_choice_section_id",
			stmt: `ALTER TABLE "matrix_choice"
			  ADD CONSTRAINT "fk_matrix_choice_section_id"
			  FOREIGN KEY ("section_id") REFERENCES "matrix_section"("id")
			  ON DELETE CASCADE`,
		},
		{
			name: "fk_matrix_choice_parent_id",
			stmt: `ALTER TABLE "matrix_choice"
			  ADD CONSTRAINT "fk_matrix_choice_parent_id"
			  FOREIGN KEY ("parent_id") REFERENCES "matrix_choice"("id")
			  ON DELETE CASCADE`,
		},
		{
			name: "fk_matrix_rule_target_id",
			stmt: `ALTER TABLE "matrix_rule"
			  ADD CONSTRAINT "fk_matrix_rule_target_id"
			  FOREIGN KEY ("target_id") REFERENCES "matrix_choice"("id")
			  ON DELETE CASCADE`,
		},
		{
			name: "fk_matrix_rule_depends_on_id",
			stmt: `ALTER TABLE "matrix_rule"
			  ADD CONSTRAINT "fk_matrix_rule_depends_on_id"
			  FOREIGN KEY ("depends_on_id") REFERENCES "matrix_choice"("id")
			  ON DELETE CASCADE`,
		},
		{
			name: "fk_quote_agent_id",
			stmt: `ALTER TABLE "quote"
			  ADD CONSTRAINT "fk_quote_agent_id"
			  FOREIGN KEY ("agent_id") REFERENCES "user"("id")`,
		},
		{
			name: "fk_quote_selection_quote_id",
			stmt: `ALTER TABLE "quote_selection"
			  ADD CONSTRAINT "fk_quote_selection_quote_id"
			  FOREIGN KEY ("quote_id") REFERENCES "quote"("id")
			  ON DELETE CASCADE`,
		},
		{
			name: "fk_quote_selection_choice_id",
			stmt: `ALTER TABLE "quote_selection"
			  ADD CONSTRAINT "fk_quote_selection_choice_id"
			  FOREIGN KEY ("choice_id") REFERENCES "matrix_choice"("id")`,
		},
	}

	for _, c := range constraints {
		var exists bool
		if err := s.db.Raw(
			`SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = ?)`, c.name,
		).Scan(&exists).Error; err != nil {
			return fmt.Errorf("failed to check constraint %s: %w", c.name, err)
		}
		if exists {
			continue
		}
		if err := s.db.Exec(c.stmt).Error; err != nil {
			return fmt.Errorf("failed to add %s: %w", c.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
