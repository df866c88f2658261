// Command reconcile re-bases payrolls in a date range onto the current
// settings and reports totals that drifted from their components. It is safe
// to run repeatedly.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/HSouheill/tellerdesk_backend/config"
	"github.com/HSouheill/tellerdesk_backend/ledger"
	"github.com/HSouheill/tellerdesk_backend/models"
	"github.com/HSouheill/tellerdesk_backend/repositories"
	"github.com/HSouheill/tellerdesk_backend/services"
	"github.com/HSouheill/tellerdesk_backend/utils"
)

func main() {
	from := flag.String("from", "", "first payroll date (yyyy-MM-dd), default today in the settings timezone")
	to := flag.String("to", "", "last payroll date (yyyy-MM-dd), default today in the settings timezone")
	dryRun := flag.Bool("dry-run", false, "report changes without writing them")
	mail := flag.Bool("mail", true, "email the summary to ADMIN_EMAIL")
	flag.Parse()

	log := config.GetLogger()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	client := config.ConnectDB(cfg)
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.DBName)

	payrollRepo := repositories.NewPayrollRepository(db)
	// No redis and no hub: a one-shot run reads settings straight from Mongo
	// and nobody is listening for events.
	settings := services.NewSettingsService(repositories.NewSettingsRepository(db), repositories.NewUserRepository(db), nil, nil)
	reconciler := services.NewReconcileService(payrollRepo, settings, nil)

	st, err := settings.Get(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to load system settings")
		os.Exit(1)
	}
	*from, *to = businessRange(*from, *to, time.Now(), st.Timezone)

	res, err := reconciler.Run(ctx, models.ReconcileRequest{From: *from, To: *to, DryRun: *dryRun})
	if err != nil {
		log.WithError(err).Error("Reconciliation failed")
		os.Exit(1)
	}

	summary := res.Summary()
	fmt.Println(summary)

	if *mail {
		notifier := utils.NewNotifier(nil, nil, nil, cfg)
		subject := fmt.Sprintf("Payroll reconciliation %s to %s", *from, *to)
		if err := notifier.EmailAdmin(subject, summary); err != nil {
			log.WithError(err).Warn("Failed to mail reconciliation summary")
		}
	}
	if len(res.Errors) > 0 {
		os.Exit(2)
	}
}

// businessRange fills an empty bound with the business day in tz.
func businessRange(from, to string, now time.Time, tz string) (string, string) {
	today := ledger.Today(now, tz)
	if from == "" {
		from = today
	}
	if to == "" {
		to = today
	}
	return from, to
}
