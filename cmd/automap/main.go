package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/payerdesk/internal/app"
)

const reviewSample = 5

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	report, err := application.Services.AutoMapper.Run(context.Background())
	if err != nil {
		fmt.Printf("automap: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("details=%d clusters=%d payers_created=%d relinked=%d\n",
		report.Details, report.Clusters, report.PayersCreated, report.Relinked)
	fmt.Printf("%d details flagged for review\n", len(report.Review))
	for i, d := range report.Review {
		if i == reviewSample {
			fmt.Printf("  ... and %d more\n", len(report.Review)-reviewSample)
			break
		}
		fmt.Printf("  detail %d: %s (%s, %s) from %s\n", d.DetailID, d.PayerName, d.PayerID, d.State, d.Source)
	}
}
