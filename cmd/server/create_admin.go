package main

import (
	"fmt"

	"github.com/spf13/cobra"

	authadapters "tender_backend/internal/feature/auth/adapters"
	authusecase "tender_backend/internal/feature/auth/usecase"
	"tender_backend/internal/platform/config"
	platformdb "tender_backend/internal/platform/db"
	jwtmw "tender_backend/internal/platform/jwt"
	"tender_backend/internal/platform/mail"
)

var adminInput authusecase.RegisterInput

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an active admin account",
	Example: `  tender-server create-admin --email admin@example.com --name "Site Admin" --password 's3cret-pass'
  ADMIN_PASSWORD=s3cret-pass tender-server create-admin --email admin@example.com --name "Site Admin"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminInput.Password == "" {
			adminInput.Password = config.String("ADMIN_PASSWORD", "")
		}
		cfg := config.Load()

		db, err := openDB(platformdb.LoadConfigFromEnv(), true)
		if err != nil {
			return err
		}
		defer closeDB(db)

		uc := authusecase.NewAuthUsecase(
			authadapters.NewUserRepository(db),
			authadapters.NewTokenRepository(db),
			platformdb.NewTransactor(db),
			jwtmw.NewGenerator(cfg.JWTSecret, cfg.JWTExpiration),
			mail.NewLogSender(log),
			authusecase.Config{AppBaseURL: cfg.AppBaseURL},
		)
		user, err := uc.CreateAdmin(cmd.Context(), adminInput)
		if err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin %s created with id %d\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVar(&adminInput.Email, "email", "", "admin email address")
	f.StringVar(&adminInput.Name, "name", "", "admin display name")
	f.StringVar(&adminInput.Password, "password", "", "admin password (defaults to $ADMIN_PASSWORD)")
	f.StringVar(&adminInput.CompanyName, "company", "", "company name")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("name")
}
