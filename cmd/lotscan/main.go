package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/lotscan/lotscan/config"
	"github.com/lotscan/lotscan/service"
	"github.com/lotscan/lotscan/types"
	"github.com/lotscan/lotscan/utils"
)

func main() {
	var (
		configPath = flag.String("config", "config.yml", "path to the configuration file")
		zipCode    = flag.String("zip", "", "search zip code")
		makeName   = flag.String("make", "", "vehicle make")
		modelName  = flag.String("model", "", "vehicle model")
		listingID  = flag.String("listing", "", "fetch one listing by id instead of searching")
		dealerID   = flag.String("dealer", "", "fetch one dealer by id instead of searching")
		limit      = flag.Int("limit", 0, "maximum records to return")
		features   = flag.String("features", "", "comma-separated required features to filter by")
	)
	flag.Parse()

	if err := run(*configPath, *zipCode, *makeName, *modelName, *listingID, *dealerID, *limit, *features); err != nil {
		fmt.Fprintln(os.Stderr, "lotscan:", err)
		os.Exit(1)
	}
}

func run(configPath, zipCode, makeName, modelName, listingID, dealerID string, limit int, features string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	svc, err := service.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	if err := svc.Start(); err != nil {
		return err
	}
	defer func() { _ = svc.Stop() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case listingID != "":
		record, err := svc.GetListingDetails(ctx, listingID)
		if err != nil {
			return err
		}
		return print(record)

	case dealerID != "":
		record, err := svc.GetDealerInfo(ctx, dealerID)
		if err != nil {
			return err
		}
		return print(record)

	default:
		result, err := svc.SearchListings(ctx, types.SearchParams{
			ZipCode: zipCode,
			Make:    makeName,
			Model:   modelName,
			Limit:   limit,
		})
		if err != nil {
			return err
		}

		if features == "" {
			return print(result)
		}

		filtered, err := svc.FilterRecords(result.Records, types.FilterCriteria{
			Features: splitList(features),
		})
		if err != nil {
			return err
		}
		return print(filtered)
	}
}

func loadConfig(path string) (*types.ServiceConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Defaults(), nil
	}
	return config.NewLoader().LoadFromFile(path)
}

func print(value interface{}) error {
	data, err := utils.Marshal(value)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
