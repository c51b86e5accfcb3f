package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/eastridge-analytics/disclosure-desk/internal/assess"
	"github.com/eastridge-analytics/disclosure-desk/internal/config"
	"github.com/eastridge-analytics/disclosure-desk/internal/intakelog"
	"github.com/eastridge-analytics/disclosure-desk/internal/notify"
	"github.com/eastridge-analytics/disclosure-desk/internal/portal"
	"github.com/eastridge-analytics/disclosure-desk/internal/workflow"
)

func main() {
	var (
		addr    = flag.String("addr", ":8090", "Portal listen address")
		webDir  = flag.String("web-dir", "", "Directory containing web UI files (default: web/ relative to binary)")
		dataDir = flag.String("data-dir", "./data", "Directory for transient artifacts and the intake log")
	)
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}
	if !cfg.HasMailCredentials() {
		log.Printf("warning: email credentials not configured; notifications will fail")
	}

	web := *webDir
	if web == "" {
		exe, _ := os.Executable()
		web = filepath.Join(filepath.Dir(exe), "..", "..", "web")
		if _, err := os.Stat(web); err != nil {
			web = "web"
		}
	}

	caller, err := assess.NewAnthropicCaller(cfg.LLM.APIKey)
	if err != nil {
		log.Fatal(err)
	}
	generator := assess.NewGenerator(caller)
	mailer := notify.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Address, cfg.SMTP.Password)
	controller := workflow.NewController(generator, mailer, cfg.Recipient, filepath.Join(*dataDir, "artifacts"))

	events, err := intakelog.Open(filepath.Join(*dataDir, "intake.db"))
	if err != nil {
		log.Fatal(err)
	}
	defer events.Close()

	handler := portal.NewServer(controller, portal.NewSessionStore(), events, web)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	log.Printf("disclosure desk listening on %s (recipient=%s)", *addr, cfg.Recipient)
	srv := &http.Server{Addr: *addr, Handler: handler}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
