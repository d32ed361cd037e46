// cmd/tools/catalog-tool/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"nagarik-sewa/internal/catalog"
	"nagarik-sewa/internal/common/auth"
	"nagarik-sewa/internal/models"
	"nagarik-sewa/pkg/registry"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	tokenCmd := flag.NewFlagSet("token", flag.ExitOnError)

	// Export command flags
	outPath := exportCmd.String("out", "", "Write the built-in catalog to this file (stdout when empty)")

	// Validate command flags
	catalogPath := validateCmd.String("path", "configs/catalog.json", "Path to catalog file")

	// Token command flags
	id := tokenCmd.String("id", "", "Account ID (token subject)")
	name := tokenCmd.String("name", "", "Display name")
	userType := tokenCmd.String("type", models.UserTypeCitizen, "User type (citizen, official)")
	level := tokenCmd.String("level", "", "Office level for officials (local, metropolitan, district, province, national)")
	office := tokenCmd.String("office", "", "Office name for officials")
	monitor := tokenCmd.Bool("monitor", false, "Issue a monitor token")
	monitors := tokenCmd.String("monitors", "", "Comma separated levels a monitor observes")
	secret := tokenCmd.String("secret", os.Getenv("AUTH_JWT_SECRET"), "HMAC signing secret")
	issuer := tokenCmd.String("issuer", "nagarik-sewa", "Token issuer")
	ttl := tokenCmd.Duration("ttl", 24*time.Hour, "Token lifetime")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		data, err := registry.Export(catalog.BuiltinDefinition())
		if err != nil {
			fmt.Printf("Error exporting catalog: %v\n", err)
			os.Exit(1)
		}
		if *outPath == "" {
			fmt.Println(string(data))
			return
		}
		if err := os.WriteFile(*outPath, data, 0644); err != nil {
			fmt.Printf("Error writing catalog: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Catalog written to %s\n", *outPath)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		cat, err := registry.LoadCatalog(*catalogPath)
		if err != nil {
			fmt.Printf("Catalog validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Catalog validation passed (version %s, %d services).\n", cat.Version(), len(cat.Services()))

	case "token":
		tokenCmd.Parse(os.Args[2:])
		if *id == "" || *secret == "" {
			fmt.Println("Error: id and secret are required for token.")
			tokenCmd.Usage()
			os.Exit(1)
		}
		acct := models.Account{
			ID:          *id,
			FullName:    *name,
			UserType:    *userType,
			OfficeLevel: models.OfficeLevel(*level),
			OfficeName:  *office,
			IsMonitor:   *monitor,
		}
		if *monitors != "" {
			for _, l := range strings.Split(*monitors, ",") {
				acct.Monitors = append(acct.Monitors, models.OfficeLevel(strings.TrimSpace(l)))
			}
		}
		token, err := auth.NewJWTManager(*secret, *issuer, *ttl).Issue(acct)
		if err != nil {
			fmt.Printf("Error issuing token: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(token)

	case "help":
		fallthrough
	default:
		help()
	}
}

func help() {
	fmt.Println("Usage: catalog-tool <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  export    Print or write the built-in catalog as JSON")
	fmt.Println("  validate  Validate a catalog file against the schema")
	fmt.Println("  token     Issue a development bearer token")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nUse \"catalog-tool <command> -h\" for more information about a command.")
}
