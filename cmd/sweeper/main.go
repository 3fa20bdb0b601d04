package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jrtechsistemas/studio-scheduler/internal/audit"
	"github.com/jrtechsistemas/studio-scheduler/internal/config"
	dbpkg "github.com/jrtechsistemas/studio-scheduler/internal/db"
	domain "github.com/jrtechsistemas/studio-scheduler/internal/domain/booking"
	infraRepo "github.com/jrtechsistemas/studio-scheduler/internal/infra/repository"
	"github.com/jrtechsistemas/studio-scheduler/internal/payments/mercadopago"
	ucBooking "github.com/jrtechsistemas/studio-scheduler/internal/usecase/booking"
)

// Varredor de cobranças vencidas: o webhook liquida o caminho feliz, o cron
// garante que cobrança sem resposta não segura horário para sempre.
func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	repo := infraRepo.NewBookingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	var gateway domain.PaymentGateway
	if cfg.MPAccessToken != "" {
		gw, err := mercadopago.New(cfg.MPAccessToken, cfg.PixExpirationMinutes)
		if err != nil {
			log.Fatalf("mercadopago: %v", err)
		}
		gateway = gw
	}

	settle := ucBooking.NewSettlePayment(repo, gateway, auditDispatcher)
	sweep := ucBooking.NewSweepExpired(settle, repo)

	c := cron.New()
	_, err := c.AddFunc(cfg.SweepCronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		res, err := sweep.Execute(ctx)
		if err != nil {
			log.Printf("sweep: %v", err)
			return
		}
		if res.Scanned > 0 {
			log.Printf("sweep: %d vencidas, %d liquidadas, %d canceladas, %d puladas",
				res.Scanned, res.Settled, res.Cancelled, res.Skipped)
		}
	})
	if err != nil {
		log.Fatalf("cron spec inválida %q: %v", cfg.SweepCronSpec, err)
	}

	c.Start()
	log.Printf("sweeper rodando (%s)", cfg.SweepCronSpec)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	ctx := c.Stop()
	<-ctx.Done()
}
