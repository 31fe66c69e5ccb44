package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/adrg/xdg"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/klog"

	"github.com/openshift/birthday-bot/pkg/birthday"
	"github.com/openshift/birthday-bot/pkg/employee"
	"github.com/openshift/birthday-bot/pkg/notify"
	"github.com/openshift/birthday-bot/pkg/source"
)

const xdgUsersFile = "birthday-bot/users.csv"

var supportedTransports = sets.New("log", "slack", "smtp")

type birthdaySender interface {
	Send(ctx context.Context, today time.Time) (int, error)
}

// dailyRun greets the birthdays of each date at most once, however often it ticks
type dailyRun struct {
	sender    birthdaySender
	transport string
	now       func() time.Time

	lastDate employee.Date
}

func (d *dailyRun) tick(ctx context.Context) {
	today := d.now()
	date := employee.DateOf(today)
	if date == d.lastDate {
		klog.V(4).Infof("Birthdays of %s already sent", date)
		return
	}
	d.lastDate = date
	count, err := d.sender.Send(ctx, today)
	if err != nil {
		klog.Errorf("Birthday run for %s failed after %d messages: %v", date, count, err)
		return
	}
	klog.Infof("Sent %d birthday messages via %s", count, d.transport)
}

type options struct {
	UsersFile         string
	Today             string
	Transport         string
	MessageConfigPath string
	Interval          time.Duration
	MetricsPort       int

	smtpServer   string
	smtpFrom     string
	smtpUsername string
}

func (o *options) Validate() error {
	if !supportedTransports.Has(o.Transport) {
		return fmt.Errorf("--transport must be one of %s", strings.Join(sets.List(supportedTransports), ", "))
	}
	if o.Today != "" {
		if _, err := employee.ParseDate(o.Today); err != nil {
			return fmt.Errorf("--today must be a YYYY/MM/DD date: %w", err)
		}
		if o.Interval > 0 {
			return fmt.Errorf("--today cannot be combined with --interval")
		}
	}
	if o.Interval < 0 {
		return fmt.Errorf("--interval may not be negative")
	}
	if o.Transport == "smtp" && (o.smtpServer == "" || o.smtpFrom == "") {
		return fmt.Errorf("--smtp-server and --smtp-from are required with --transport=smtp")
	}
	return nil
}

// today returns the date to look for birthdays on: --today when set, else the local date
func (o *options) today(now time.Time) time.Time {
	if o.Today == "" {
		return now
	}
	t, err := time.ParseInLocation(employee.DateLayout, o.Today, time.Local)
	if err != nil {
		return now
	}
	return t
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	emptyFlags := flag.NewFlagSet("empty", flag.ContinueOnError)
	klog.InitFlags(emptyFlags)
	opt := &options{Transport: "log"}

	pflag.StringVar(&opt.UsersFile, "users-file", "", fmt.Sprintf("Users file to read, a local path or gs://<bucket>/<object>. Defaults to %s, then $XDG_DATA_DIRS/%s.", source.DefaultPath, xdgUsersFile))
	pflag.StringVar(&opt.Today, "today", "", "Send the greetings of this YYYY/MM/DD date instead of today's.")
	pflag.StringVar(&opt.Transport, "transport", opt.Transport, "How to deliver greetings: log, slack (needs BOT_TOKEN) or smtp (SMTP_PASSWORD is read when --smtp-username is set).")
	pflag.StringVar(&opt.MessageConfigPath, "message-config", "", "YAML file with subject and greeting templates.")
	pflag.DurationVar(&opt.Interval, "interval", 0, "Check for birthdays every interval until stopped; each date is greeted once. 0 sends once and exits.")
	pflag.IntVar(&opt.MetricsPort, "metrics-port", 9090, "Port to serve metrics on when running with --interval. 0 disables metrics.")
	pflag.StringVar(&opt.smtpServer, "smtp-server", "", "SMTP relay as host:port.")
	pflag.StringVar(&opt.smtpFrom, "smtp-from", "", "Sender address of greeting mails.")
	pflag.StringVar(&opt.smtpUsername, "smtp-username", "", "Username for SMTP PLAIN authentication.")
	pflag.CommandLine.AddGoFlagSet(emptyFlags)
	pflag.Parse()
	klog.SetOutput(os.Stderr)

	if err := opt.Validate(); err != nil {
		return fmt.Errorf("unable to validate program arguments: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collection, err := openCollection(ctx, afero.NewOsFs(), opt.UsersFile, xdg.SearchDataFile)
	if err != nil {
		return err
	}
	defer func() {
		if err := collection.Close(); err != nil {
			klog.Errorf("Failed to close the users file: %v", err)
		}
	}()

	transport, err := newTransport(opt)
	if err != nil {
		return err
	}
	messageConfig, err := notify.LoadMessageConfig(opt.MessageConfigPath)
	if err != nil {
		return err
	}
	formatter, err := notify.NewFormatter(messageConfig)
	if err != nil {
		return err
	}
	sender := birthday.NewSender(collection, notify.NewOutbox(transport), formatter)

	if opt.Interval == 0 {
		count, err := sender.Send(ctx, opt.today(time.Now()))
		klog.Infof("Sent %d birthday messages via %s", count, transport.Name())
		return err
	}

	if opt.MetricsPort > 0 {
		serveMetrics(opt.MetricsPort)
	}
	klog.Infof("Sending birthday messages every %s", opt.Interval)
	daily := &dailyRun{sender: sender, transport: transport.Name(), now: time.Now}
	wait.UntilWithContext(ctx, daily.tick, opt.Interval)
	klog.Infof("Stopped")
	return nil
}

// openCollection opens the configured users file. Without an explicit file the
// conventional default path is tried first, then the XDG data directories.
func openCollection(ctx context.Context, fs afero.Fs, usersFile string, searchDataFile func(string) (string, error)) (*employee.Collection, error) {
	src, err := source.New(ctx, fs, usersFile)
	if err != nil && usersFile == "" && errors.Is(err, source.ErrSourceUnavailable) {
		klog.Warningf("%v; searching XDG data directories for %s", err, xdgUsersFile)
		path, searchErr := searchDataFile(xdgUsersFile)
		if searchErr != nil {
			return nil, fmt.Errorf("no users file found: %w", err)
		}
		src, err = source.NewFileSource(fs, path)
	}
	if err != nil {
		return nil, err
	}
	klog.Infof("Reading employees from %s", src.Name())
	return employee.NewCollection(src), nil
}

func newTransport(opt *options) (notify.Transport, error) {
	switch opt.Transport {
	case "slack":
		botToken := os.Getenv("BOT_TOKEN")
		if len(botToken) == 0 {
			return nil, fmt.Errorf("the environment variable BOT_TOKEN must be set")
		}
		return notify.NewSlackTransport(botToken), nil
	case "smtp":
		transport, err := notify.NewSMTPTransport(notify.SMTPConfig{
			Server:   opt.smtpServer,
			From:     opt.smtpFrom,
			Username: opt.smtpUsername,
			Password: os.Getenv("SMTP_PASSWORD"),
		})
		if err != nil {
			return nil, err
		}
		return transport, nil
	default:
		return notify.NewLogTransport(nil), nil
	}
}

func serveMetrics(port int) {
	registry := prometheus.NewRegistry()
	if err := notify.RegisterMetrics(registry); err != nil {
		klog.Errorf("Failed to register metrics: %v", err)
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			klog.Errorf("Metrics server stopped: %v", err)
		}
	}()
}
