package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"marketgo/backend/internal/config"
	"marketgo/backend/internal/models"
	"marketgo/backend/internal/report"
	"marketgo/backend/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	store := storage.NewService(db, nil) // No redis needed for admin CLI

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "grant-staff":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin grant-staff <username>")
			os.Exit(1)
		}
		if err := setStaff(store, os.Args[2], true); err != nil {
			log.Fatalf("Error granting staff: %v", err)
		}
		fmt.Printf("User %s is now staff.\n", os.Args[2])
	case "revoke-staff":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin revoke-staff <username>")
			os.Exit(1)
		}
		if err := setStaff(store, os.Args[2], false); err != nil {
			log.Fatalf("Error revoking staff: %v", err)
		}
		fmt.Printf("User %s is no longer staff.\n", os.Args[2])
	case "wake":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin wake <username>")
			os.Exit(1)
		}
		if err := wakeUser(store, os.Args[2]); err != nil {
			log.Fatalf("Error waking user: %v", err)
		}
		fmt.Printf("User %s is active again.\n", os.Args[2])
	case "pending":
		if err := listPending(store); err != nil {
			log.Fatalf("Error listing pending reports: %v", err)
		}
	case "resolve":
		if len(os.Args) != 5 {
			fmt.Println("Usage: admin resolve <report_id> <approve|reject> <staff_username>")
			os.Exit(1)
		}
		reportID, err := strconv.Atoi(os.Args[2])
		if err != nil {
			fmt.Println("Invalid report ID. Please provide an integer.")
			os.Exit(1)
		}
		if err := resolve(store, uint(reportID), os.Args[3], os.Args[4]); err != nil {
			log.Fatalf("Error resolving report: %v", err)
		}
		fmt.Printf("Report %d resolved: %s.\n", reportID, os.Args[3])
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func setStaff(s *storage.Service, username string, staff bool) error {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		return err
	}
	user.IsStaff = staff
	return s.UpdateUser(user)
}

// wakeUser clears the dormant flag and resets the report count, the manual
// escape hatch the moderation engine deliberately does not provide.
func wakeUser(s *storage.Service, username string) error {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		return err
	}
	user.IsDormant = false
	user.ReportCount = 0
	return s.UpdateUser(user)
}

func listPending(s *storage.Service) error {
	reports, err := s.ListReportsByStatus(models.ReportPending)
	if err != nil {
		return err
	}
	for _, r := range reports {
		target := models.TargetOf(&r)
		fmt.Printf("#%d\t%s %d\t%s\t%s\n", r.ID, target.Kind, target.ID, r.Reason, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Printf("%d pending reports.\n", len(reports))
	return nil
}

func resolve(s *storage.Service, reportID uint, decision, staffUsername string) error {
	staff, err := s.GetUserByUsername(staffUsername)
	if err != nil {
		return err
	}
	engine := report.NewService(s, nil)
	_, err = engine.ResolveReport(staff, reportID, decision)
	return err
}
