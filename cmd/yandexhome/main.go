// Command yandexhome is a command line client and Prometheus exporter for
// the Yandex Smart Home API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	yh "github.com/tj-smith47/yandexhome-go"
)

var version = "dev"

const usage = `usage: yandexhome [flags] <command> [args]

commands:
  info                        list rooms, devices and their states
  device <id> [<id>...]       show one device, or several fetched concurrently
  group <id>                  show a group
  set <device-id> <edit>...   change device capabilities
  group-set <id>[,<id>...] <edit>...
                              change group capabilities
  export                      serve Prometheus metrics of all devices
  login                       authorize with OAuth and save the token to token_file

`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// usageError marks errors caused by wrong arguments.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

var errNoToken = errors.New("no token configured: set token, token_file or oauth.refresh_token")

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("yandexhome", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to a YAML config file.")
	output := fs.String("output", "", "Output format: json, yaml or table.")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn or error.")
	token := fs.String("token", "", "OAuth token. Overrides YANDEXHOME_TOKEN.")
	endpoint := fs.String("endpoint", "", "API endpoint.")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\n%s\n", editUsage)
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	v := newViper()
	if err := readConfigFile(v, *configPath); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "output":
			v.Set("output", *output)
		case "log-level":
			v.Set("log.level", *logLevel)
		case "token":
			v.Set("token", *token)
		case "endpoint":
			v.Set("endpoint", *endpoint)
		}
	})
	cfg, err := loadConfig(v)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer logger.Sync() // flushes buffer, if any

	a := &app{cfg: cfg, logger: logger, stdout: stdout, stderr: stderr}
	if err := a.dispatch(ctx, fs.Arg(0), fs.Args()[1:]); err != nil {
		var ue usageError
		if errors.As(err, &ue) {
			fmt.Fprintf(stderr, "error: %s\n\n", ue.msg)
			fs.Usage()
			return 2
		}
		a.reportError(err)
		return 1
	}
	return 0
}

type app struct {
	cfg    *Config
	logger *zap.Logger
	stdout io.Writer
	stderr io.Writer
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "info":
		return a.info(ctx)
	case "device":
		if len(args) == 0 {
			return usageError{"device: missing device id"}
		}
		return a.device(ctx, args)
	case "group":
		if len(args) != 1 {
			return usageError{"group: want exactly one group id"}
		}
		return a.group(ctx, args[0])
	case "set":
		if len(args) < 2 {
			return usageError{"set: want a device id and at least one edit"}
		}
		return a.set(ctx, args[0], args[1:])
	case "group-set":
		if len(args) < 2 {
			return usageError{"group-set: want group ids and at least one edit"}
		}
		return a.groupSet(ctx, strings.Split(args[0], ","), args[1:])
	case "export":
		return a.export(ctx)
	case "login":
		return a.login(ctx)
	}
	return usageError{fmt.Sprintf("unknown command %q", cmd)}
}

// client builds an API client from the configuration. The returned refresh
// function re-reads rotating credentials; it is nil for a static token.
func (a *app) client(ctx context.Context, reg prometheus.Registerer) (*yh.Client, func(context.Context) error, error) {
	opts := []yh.Option{
		yh.WithTimeout(a.cfg.Timeout),
		yh.WithLogger(slogFor(a.logger)),
		yh.WithUserAgent("yandexhome-cli/" + version),
	}
	if a.cfg.Endpoint != "" {
		opts = append(opts, yh.WithEndpoint(a.cfg.Endpoint))
	}
	if reg != nil {
		opts = append(opts, yh.WithMetrics(reg))
	}

	switch {
	case a.cfg.Token != "":
		c, err := yh.NewClient(a.cfg.Token, opts...)
		return c, nil, err
	case a.cfg.TokenFile != "":
		return a.fileClient(ctx, opts)
	case a.cfg.OAuth.Enabled():
		conf := yh.OAuthConfig(a.cfg.OAuth.ClientID, a.cfg.OAuth.ClientSecret, "")
		ts := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: a.cfg.OAuth.RefreshToken})
		tok, err := ts.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("oauth refresh: %w", err)
		}
		c, err := yh.NewClient(tok.AccessToken, opts...)
		if err != nil {
			return nil, nil, err
		}
		return c, func(ctx context.Context) error { return c.RefreshFrom(ctx, ts) }, nil
	}
	return nil, nil, errNoToken
}

func (a *app) info(ctx context.Context) error {
	c, _, err := a.client(ctx, nil)
	if err != nil {
		return err
	}
	info, err := c.GetUserInfo(ctx)
	if err != nil {
		return err
	}
	return render(a.stdout, a.cfg.Output, info)
}

func (a *app) device(ctx context.Context, ids []string) error {
	c, _, err := a.client(ctx, nil)
	if err != nil {
		return err
	}
	if len(ids) == 1 {
		d, err := c.GetDevice(ctx, ids[0])
		if err != nil {
			return err
		}
		return render(a.stdout, a.cfg.Output, d)
	}

	results := c.GetDevicesBatch(ctx, ids, nil)
	if err := render(a.stdout, a.cfg.Output, deviceResults(results)); err != nil {
		return err
	}
	var failed int
	for _, r := range results {
		if r.Error != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d devices failed", failed, len(results))
	}
	return nil
}

func (a *app) group(ctx context.Context, id string) error {
	c, _, err := a.client(ctx, nil)
	if err != nil {
		return err
	}
	g, err := c.GetGroup(ctx, id)
	if err != nil {
		return err
	}
	return render(a.stdout, a.cfg.Output, g)
}

func (a *app) set(ctx context.Context, id string, args []string) error {
	edits, err := parseEdits(args)
	if err != nil {
		return usageError{err.Error()}
	}
	c, _, err := a.client(ctx, nil)
	if err != nil {
		return err
	}
	d, err := c.GetDevice(ctx, id)
	if err != nil {
		return err
	}
	resp, err := c.ApplyDeviceEdits(ctx, d, edits...)
	if err != nil {
		return err
	}
	return render(a.stdout, a.cfg.Output, resp)
}

func (a *app) groupSet(ctx context.Context, ids []string, args []string) error {
	edits, err := parseEdits(args)
	if err != nil {
		return usageError{err.Error()}
	}
	c, _, err := a.client(ctx, nil)
	if err != nil {
		return err
	}

	if len(ids) == 1 {
		g, err := c.GetGroup(ctx, ids[0])
		if err != nil {
			return err
		}
		resp, err := c.ApplyGroupEdits(ctx, g.ID, g.Capabilities, edits...)
		if err != nil {
			return err
		}
		return render(a.stdout, a.cfg.Output, resp)
	}

	items := make([]yh.GroupActionBatchItem, 0, len(ids))
	for _, id := range ids {
		g, err := c.GetGroup(ctx, id)
		if err != nil {
			return err
		}
		req, err := yh.BuildGroupAction(g.Capabilities, edits...)
		if err != nil {
			return fmt.Errorf("group %s: %w", id, err)
		}
		items = append(items, yh.GroupActionBatchItem{GroupID: id, Request: req})
	}
	results := c.ApplyGroupActionsBatch(ctx, items, nil)
	if err := render(a.stdout, a.cfg.Output, groupResults(results)); err != nil {
		return err
	}
	for _, r := range results {
		if r.Error != nil {
			return fmt.Errorf("group %s: %w", r.GroupID, r.Error)
		}
	}
	return nil
}

func (a *app) export(ctx context.Context) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewBuildInfoCollector())
	reg.MustRegister(collectors.NewGoCollector())

	c, refresh, err := a.client(ctx, reg)
	if err != nil {
		return err
	}
	exp := newExporter(c, reg, a.cfg.Exporter.Interval, a.logger)
	exp.refresh = refresh
	if a.cfg.Influx.Host != "" {
		s := newInfluxSink(a.cfg.Influx)
		defer s.Close()
		exp.sinks = append(exp.sinks, s)
	}

	go exp.Run(ctx)

	server := &http.Server{
		Addr:              a.cfg.Exporter.Listen,
		Handler:           exp.Handler(reg),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	a.logger.Info("exporter starting",
		zap.String("addr", server.Addr),
		zap.Duration("interval", a.cfg.Exporter.Interval),
		zap.Bool("influxdb", a.cfg.Influx.Host != ""),
	)
	if err := runServer(ctx, server); err != nil {
		return err
	}
	a.logger.Info("exporter stopped")
	return nil
}

// reportError prints a user-facing message. Partial action failures also
// print the decoded response and every failed item.
func (a *app) reportError(err error) {
	var appErr *yh.ApplicationError
	if errors.As(err, &appErr) {
		if appErr.Response != nil {
			_ = render(a.stdout, a.cfg.Output, appErr.Response)
		}
		for _, f := range appErr.Errors {
			fmt.Fprintf(a.stderr, "failed: %s %s\n", f.DeviceID, f.Error())
		}
		return
	}
	fmt.Fprintf(a.stderr, "error: %s\n", yh.Message(err))
	a.logger.Debug("command failed", zap.Error(err))
}
