package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ducminhle1904/funding-arb-advisor/internal/config"
	"github.com/ducminhle1904/funding-arb-advisor/internal/profile"
	"github.com/ducminhle1904/funding-arb-advisor/pkg/reporting"
)

func main() {
	var (
		configFile   = flag.String("config", "", "Configuration file (YAML); defaults apply when omitted")
		envFile      = flag.String("env", ".env", "Environment file path")
		profilePath  = flag.String("profile", "", "Capital profile path - overrides config")
		initLevel    = flag.String("init", "", "Create a new profile with this risk level (conservative, moderate, aggressive)")
		setBalance   = flag.String("set-balance", "", "Set an exchange balance, formatted exchange=amount (e.g. bybit=1000)")
		enable       = flag.String("enable", "", "Enable an exchange for recommendations")
		disable      = flag.String("disable", "", "Disable an exchange for recommendations")
		riskLevel    = flag.String("risk", "", "Switch the risk level and re-apply its preset")
		dailyTarget  = flag.Float64("target", -1, "Set the daily return target percent")
		maxPositions = flag.Int("max-positions", 0, "Set the maximum open positions")
		minSpread    = flag.Float64("min-spread", -1, "Set the minimum spread filter")
		show         = flag.Bool("show", false, "Show the current profile")
	)
	flag.Parse()

	if err := loadEnvFile(*envFile); err != nil {
		log.Printf("Warning: could not load env file (%v), using process environment", err)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *profilePath != "" {
		cfg.Profile.Path = *profilePath
	}

	store := profile.NewStore(cfg.Profile.Path)
	prof, err := store.Load()
	if err != nil {
		log.Fatalf("Failed to load profile: %v", err)
	}

	if *initLevel != "" {
		if prof != nil {
			log.Fatalf("Profile already exists at %s - edit it with the other flags", store.Path())
		}
		prof, err = profile.New(profile.RiskLevel(*initLevel))
		if err != nil {
			log.Fatalf("Failed to create profile: %v", err)
		}
		if err := store.Save(prof); err != nil {
			log.Fatalf("Failed to save profile: %v", err)
		}
		fmt.Printf("✅ Created %s profile at %s\n", *initLevel, store.Path())
	}

	if prof == nil {
		log.Fatalf("No profile found at %s - create one with -init", store.Path())
	}

	changed := false

	if *setBalance != "" {
		exchange, amount, err := parseBalanceArg(*setBalance)
		if err != nil {
			log.Fatalf("Invalid -set-balance: %v", err)
		}
		if err := prof.SetBalance(exchange, amount); err != nil {
			log.Fatalf("Failed to set balance: %v", err)
		}
		fmt.Printf("✅ Balance for %s set to $%.2f\n", exchange, amount)
		changed = true
	}
	if *enable != "" {
		prof.SetExchangeEnabled(*enable, true)
		fmt.Printf("✅ Exchange %s enabled\n", *enable)
		changed = true
	}
	if *disable != "" {
		prof.SetExchangeEnabled(*disable, false)
		fmt.Printf("✅ Exchange %s disabled\n", *disable)
		changed = true
	}
	if *riskLevel != "" {
		if err := prof.ApplyPreset(profile.RiskLevel(*riskLevel)); err != nil {
			log.Fatalf("Failed to switch risk level: %v", err)
		}
		fmt.Printf("✅ Risk level set to %s, preset re-applied\n", *riskLevel)
		changed = true
	}
	if *dailyTarget >= 0 {
		prof.DailyTargetPercent = *dailyTarget
		prof.Touch()
		fmt.Printf("✅ Daily target set to %.2f%%\n", *dailyTarget)
		changed = true
	}
	if *maxPositions > 0 {
		prof.MaxOpenPositions = *maxPositions
		prof.Touch()
		fmt.Printf("✅ Max open positions set to %d\n", *maxPositions)
		changed = true
	}
	if *minSpread >= 0 {
		prof.MinSpread = *minSpread
		prof.Touch()
		fmt.Printf("✅ Min spread set to %.4f\n", *minSpread)
		changed = true
	}

	if changed {
		if err := store.Save(prof); err != nil {
			log.Fatalf("Failed to save profile: %v", err)
		}
	}

	if *show || changed || *initLevel != "" {
		reporting.NewConsoleReporter().PrintProfile(prof)
		return
	}
	flag.Usage()
}

// parseBalanceArg splits an exchange=amount argument.
func parseBalanceArg(arg string) (string, float64, error) {
	parts := strings.SplitN(arg, "=", 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", 0, fmt.Errorf("expected exchange=amount, got %q", arg)
	}
	amount, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", 0, fmt.Errorf("amount %q is not a number", parts[1])
	}
	return parts[0], amount, nil
}

// loadEnvFile loads environment variables from a file
func loadEnvFile(envFile string) error {
	if _, err := os.Stat(envFile); err == nil {
		return godotenv.Load(envFile)
	}
	return fmt.Errorf("env file %s not found", envFile)
}
