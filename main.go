package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tablesearch/internal/config"
	"tablesearch/internal/csrf"
	"tablesearch/internal/eventbus"
	"tablesearch/internal/search"
	"tablesearch/internal/ui"
)

const userAgent = "tablesearch/1"

// flags holds command line overrides for the config file
type flags struct {
	configPath string
	url        string
	objectType string
	archived   bool
	csrfToken  string
	csrfCookie string
	formAction string
	debounce   time.Duration
	logFile    string
	saveConfig bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "tablesearch",
		Short: "Search a CMS table view with live suggestions",
		Long: `tablesearch opens a search box for a CMS list view. Typing asks the
search endpoint for matching titles after a short pause; clicking a suggestion
or pressing enter submits the search form.

Example:
  tablesearch --url https://cms.example.com/admin/search/ \
    --object-type page --form-action https://cms.example.com/admin/pages/`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := run(cmd, f); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return err
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "Config file (default: "+config.DefaultPath()+")")
	fl.StringVarP(&f.url, "url", "u", "", "Search suggestion endpoint")
	fl.StringVarP(&f.objectType, "object-type", "t", "", "Object type to search")
	fl.BoolVar(&f.archived, "archived", false, "Include archived objects")
	fl.StringVar(&f.csrfToken, "csrf-token", "", "CSRF token sent with every request")
	fl.StringVar(&f.csrfCookie, "csrf-cookie", "", "Cookie holding the CSRF token")
	fl.StringVar(&f.formAction, "form-action", "", "Search form action; without it the chosen query is printed")
	fl.DurationVar(&f.debounce, "debounce", 0, "Pause after typing before suggestions are fetched")
	fl.StringVar(&f.logFile, "log-file", "", "Log file")
	fl.BoolVar(&f.saveConfig, "save-config", false, "Write the merged settings back to the config file")

	return cmd
}

func run(cmd *cobra.Command, f flags) error {
	// stderr belongs to the terminal UI; nothing is logged until the log file is known
	log.SetOutput(io.Discard)

	bus := eventbus.New()
	defer bus.Close()

	configSvc := config.NewConfigServiceWithBus(f.configPath, bus)
	cfg, err := configSvc.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cmd, f, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Set up logging
	if cfg.LogFile != "" {
		logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("could not open log file: %w", err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
	}
	log.Printf("Starting tablesearch for %s at %s", cfg.Search.ObjectType, cfg.Search.URL)

	if f.saveConfig {
		if err := configSvc.Save(cfg); err != nil {
			return err
		}
		log.Printf("Config saved to %s", configSvc.Path())
	}

	hc, tokens, err := newHTTPClient(cfg)
	if err != nil {
		return err
	}

	client := search.NewClient(tokens,
		search.WithHTTPClient(hc),
		search.WithTimeout(cfg.Timeout()),
		search.WithUserAgent(userAgent),
	)

	// A nil *FormSubmitter must not end up inside the interface
	var submitter ui.Submitter
	if cfg.HasForm() {
		submitter = search.NewFormSubmitter(cfg.Form.Action, client.HTTPClient(), tokens)
	}

	model := ui.NewModel(cfg, bus, client, submitter)

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithReportFocus()}
	if cfg.UISettings.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	opts = append(opts, tea.WithContext(ctx))

	p := tea.NewProgram(model, opts...)
	model.SetProgram(p)

	// Create event channel for UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	forwardEvent := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			log.Println("Event channel full, dropping event")
		}
	}

	bus.Subscribe(eventbus.EventSuggestionsReceived, forwardEvent)
	bus.Subscribe(eventbus.EventQuerySkipped, forwardEvent)
	bus.Subscribe(eventbus.EventQueryFailed, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.QueryFailedEvent); ok {
			log.Printf("Suggestions for '%s' not updated: %v", event.Query, event.Err)
		}
	})
	bus.Subscribe(eventbus.EventFormSubmitted, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.FormSubmittedEvent); ok && event.Err == nil {
			log.Printf("Search '%s' submitted: %d %s", event.Query, event.StatusCode, event.Location)
		}
	})

	// Start forwarding events to UI in background
	done := make(chan struct{})
	go func() {
		for {
			select {
			case event := <-eventChan:
				p.Send(ui.EventMsg{Event: event})
			case <-done:
				return
			}
		}
	}()

	log.Printf("Starting UI...")
	_, runErr := p.Run()
	close(done)
	if ctx.Err() != nil {
		log.Printf("Interrupted")
		return nil
	}
	if runErr != nil {
		log.Printf("Error running program: %v", runErr)
		return fmt.Errorf("error running program: %w", runErr)
	}
	log.Printf("UI exited normally")

	return report(cmd, model.Result())
}

// applyFlags copies explicitly set flags over the loaded config
func applyFlags(cmd *cobra.Command, f flags, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("url") {
		cfg.Search.URL = f.url
	}
	if changed("object-type") {
		cfg.Search.ObjectType = f.objectType
	}
	if changed("archived") {
		cfg.Search.Archived = f.archived
	}
	if changed("csrf-token") {
		cfg.Auth.CSRFToken = f.csrfToken
	}
	if changed("csrf-cookie") {
		cfg.Auth.CSRFCookie = f.csrfCookie
	}
	if changed("form-action") {
		cfg.Form.Action = f.formAction
	}
	if changed("debounce") {
		cfg.Search.DebounceMS = int(f.debounce / time.Millisecond)
	}
	if changed("log-file") {
		cfg.LogFile = f.logFile
	}
}

// newHTTPClient builds the client shared by suggestions and the form, with a
// cookie jar seeded from the config, and picks the CSRF token source
func newHTTPClient(cfg *config.Config) (*http.Client, csrf.Provider, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	if len(cfg.Auth.Cookies) > 0 {
		u, err := url.Parse(cfg.Search.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid search url: %w", err)
		}
		cookies := make([]*http.Cookie, 0, len(cfg.Auth.Cookies))
		for name, value := range cfg.Auth.Cookies {
			cookies = append(cookies, &http.Cookie{Name: name, Value: value, Path: "/"})
		}
		jar.SetCookies(u, cookies)
	}

	hc := &http.Client{Jar: jar}

	if cfg.Auth.CSRFToken != "" {
		return hc, csrf.Static(cfg.Auth.CSRFToken), nil
	}
	tokens, err := csrf.NewCookieProvider(jar, cfg.Search.URL, cfg.Auth.CSRFCookie)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid search url: %w", err)
	}
	return hc, tokens, nil
}

// report prints how the session ended once the terminal is restored
func report(cmd *cobra.Command, res ui.Result) error {
	out := cmd.OutOrStdout()
	switch {
	case res.Quit:
		return nil
	case res.Err != nil:
		return fmt.Errorf("search submit failed: %w", res.Err)
	case res.Submitted && res.Location != "":
		fmt.Fprintf(out, "%s\n", res.Location)
	case res.Submitted:
		fmt.Fprintf(out, "%q submitted (%d)\n", res.Query, res.StatusCode)
	default:
		fmt.Fprintln(out, res.Query)
	}
	return nil
}
