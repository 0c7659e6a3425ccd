package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/eol-ict/onlyoo-backend/internal/db"
	"github.com/eol-ict/onlyoo-backend/internal/logger"
	"github.com/eol-ict/onlyoo-backend/internal/types"
)

// Seeds one account per role and a small starter catalog. Every insert
// is idempotent on the natural key so the command can run on each
// deploy.
func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	log.Info("Seeding users...")
	seedUser(thePG, log, "admin@eol-ict.local", "admin123", "Admin", types.RoleAdmin)
	seedUser(thePG, log, "manager@eol-ict.local", "manager123", "Manager", types.RoleManager)
	seedUser(thePG, log, "agent@eol-ict.local", "agent123", "Agent", types.RoleAgent)
	seedUser(thePG, log, "bo@eol-ict.local", "bo123", "Backoffice", types.RoleBackoffice)
	seedUser(thePG, log, "formation@eol-ict.local", "formation123", "Formation", types.RoleFormation)

	log.Info("Seeding matrix...")
	secPack := seedSection(thePG, log, "pack_type", "Type de pack", types.SectionSingle, 1)
	secGsm := seedSection(thePG, log, "gsm", "GSM", types.SectionSingle, 2)
	secOpt := seedSection(thePG, log, "options", "Options", types.SectionMulti, 3)

	flexXS := seedChoice(thePG, log, "flex_xs", secPack.ID, "Flex+ XS", 52.99, 57.99, 1)
	seedChoice(thePG, log, "flex_easy", secPack.ID, "Flex+ EASY", 64.99, 84.99, 2)

	seedChoice(thePG, log, "gsm_20", secGsm.ID, "20GB", 18.15, 18.15, 1)
	seedChoice(thePG, log, "gsm_10", secGsm.ID, "10GB", 9.99, 9.99, 2)

	roaming := seedChoice(thePG, log, "roaming", secOpt.ID, "Roaming International", 5, 5, 1)
	seedChoice(thePG, log, "data10", secOpt.ID, "Data Extra 10GB", 10, 10, 2)

	seedRule(thePG, log, roaming.ID, flexXS.ID, "Option dispo si Flex+ XS")
	seedAlert(thePG, log, "pack-xs-gsm", "Attention: vérifier la couverture GSM avec un pack XS.")

	log.Info("Seed done")
}

func seedUser(thePG *gorm.DB, log *logger.Logger, email, password, name, role string) {
	var existing types.User
	err := thePG.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("User lookup failed", "email", email, "error", err)
		os.Exit(1)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Password hash failed", "email", email, "error", err)
		os.Exit(1)
	}
	user := types.User{
		Identifier: strings.SplitN(email, "@", 2)[0],
		Email:      email,
		Password:   string(hashed),
		Name:       name,
		Role:       role,
		Active:     true,
	}
	if err := thePG.Create(&user).Error; err != nil {
		log.Error("User seed failed", "email", email, "error", err)
		os.Exit(1)
	}
	log.Info("User seeded", "identifier", user.Identifier, "role", role)
}

func seedSection(thePG *gorm.DB, log *logger.Logger, key, title, sectionType string, sortOrder int) types.Section {
	section := types.Section{Key: key, Title: title, Type: sectionType, SortOrder: sortOrder, Active: true}
	if err := thePG.Where(types.Section{Key: key}).FirstOrCreate(&section).Error; err != nil {
		log.Error("Section seed failed", "key", key, "error", err)
		os.Exit(1)
	}
	return section
}

func seedChoice(thePG *gorm.DB, log *logger.Logger, key string, sectionID uint, label string, priceY1, priceY2 float64, sortOrder int) types.Choice {
	choice := types.Choice{
		Key:       key,
		SectionID: sectionID,
		Label:     label,
		PriceY1:   priceY1,
		PriceY2:   priceY2,
		SortOrder: sortOrder,
		Active:    true,
	}
	if err := thePG.Where(types.Choice{Key: key}).FirstOrCreate(&choice).Error; err != nil {
		log.Error("Choice seed failed", "key", key, "error", err)
		os.Exit(1)
	}
	return choice
}

func seedRule(thePG *gorm.DB, log *logger.Logger, targetID, dependsOnID uint, message string) {
	rule := types.Rule{Type: types.RuleShowIf, TargetID: targetID, DependsOnID: dependsOnID, Message: message}
	if err := thePG.
		Where(types.Rule{Type: types.RuleShowIf, TargetID: targetID, DependsOnID: dependsOnID}).
		FirstOrCreate(&rule).Error; err != nil {
		log.Error("Rule seed failed", "target_id", targetID, "error", err)
		os.Exit(1)
	}
}

func seedAlert(thePG *gorm.DB, log *logger.Logger, name, message string) {
	alert := types.Alert{
		Name:            name,
		Message:         message,
		ConditionType:   "PACK_XS_WITH_GSM",
		ConditionConfig: datatypes.JSON([]byte(`{"packKeys":["flex_xs"]}`)),
		Blocking:        false,
		Active:          true,
		SortOrder:       1,
	}
	if err := thePG.Where(types.Alert{Name: name}).FirstOrCreate(&alert).Error; err != nil {
		log.Error("Alert seed failed", "name", name, "error", err)
		os.Exit(1)
	}
}
