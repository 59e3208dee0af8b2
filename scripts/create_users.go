package main

import (
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/sahilchouksey/studynotion-api/config"
	"github.com/sahilchouksey/studynotion-api/database"
	"github.com/sahilchouksey/studynotion-api/model"
	"gorm.io/gorm"
)

// Creates one login per account type and prints the credentials.
// Connection settings come from the same environment the API reads.
func main() {
	if err := config.LoadENV(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	store, err := database.StartGORM()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Unexpected database handle")
	}

	accounts := defaultAccounts()
	seeder := database.NewSeeder(db)
	for _, acct := range accounts {
		_, created, err := seeder.SeedAccount(acct)
		if err != nil {
			log.Fatalf("Failed to create %s: %v", acct.Email, err)
		}
		if created {
			log.Printf("Created %s account %s", acct.AccountType, acct.Email)
		} else {
			log.Printf("Account %s already exists, password left unchanged", acct.Email)
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tNAME\tEMAIL\tPASSWORD")
	for _, acct := range accounts {
		fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\n", acct.AccountType, acct.FirstName, acct.LastName, acct.Email, acct.Password)
	}
	w.Flush()
}

func defaultAccounts() []database.Account {
	adminEmail, adminPassword := os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" {
		adminEmail = "admin@example.com"
	}
	if adminPassword == "" {
		adminPassword = "ChangeMe123!"
	}

	return []database.Account{
		{FirstName: "System", LastName: "Administrator", Email: adminEmail, Password: adminPassword, AccountType: model.AccountTypeAdmin},
		{FirstName: "Test", LastName: "Instructor", Email: "instructor@example.com", Password: "Instructor123!", AccountType: model.AccountTypeInstructor},
		{FirstName: "Test", LastName: "Student", Email: "student@example.com", Password: "Student123!", AccountType: model.AccountTypeStudent},
	}
}
