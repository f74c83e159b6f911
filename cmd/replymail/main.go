// Command replymail is the email function the console posts replies to.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/raids-lab/siteadmin/pkg/config"
	"github.com/raids-lab/siteadmin/pkg/mailer"
	"github.com/raids-lab/siteadmin/pkg/reply"
)

const (
	readHeaderTimeout = 10 * time.Second
	cancelTimeout     = 10 * time.Second
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	cfg := config.GetConfig()
	sender, err := newSender(cfg)
	if err != nil {
		klog.Fatalf("Failed to set up mail sender: %s", err)
	}

	r := gin.Default()
	r.Use(mailer.CORS())
	r.POST(reply.Path, mailer.Handler(sender, cfg.Mail.Sender))

	srv := &http.Server{
		Addr:              cfg.MailAddr,
		Handler:           r,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			klog.Fatalf("listen: %s\n", err)
		}
	}()
	klog.Infof("reply mail function listening on %s", cfg.MailAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cancelTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		klog.Info("Reply Mail Shutdown:", err)
	}
}

// newSender prefers Resend when an API key is configured and falls back to
// SMTP otherwise.
func newSender(cfg *config.Config) (mailer.Sender, error) {
	if cfg.Mail.ResendAPIKey != "" {
		klog.Info("sending replies through Resend")
		return mailer.NewResend(cfg.Mail.ResendURL, cfg.Mail.ResendAPIKey), nil
	}
	smtp := cfg.Mail.SMTP
	if smtp.Host == "" {
		return nil, errors.New("neither RESEND_API_KEY nor mail.smtp.host is set")
	}
	klog.Infof("sending replies through SMTP %s:%s", smtp.Host, smtp.Port)
	var opts []mailer.SMTPOption
	if smtp.LoginAuth {
		opts = append(opts, mailer.WithLoginAuth())
	}
	s, err := mailer.NewSMTP(smtp.Host, smtp.Port, smtp.User, smtp.Password, opts...)
	if err != nil {
		return nil, err
	}
	return s, nil
}
