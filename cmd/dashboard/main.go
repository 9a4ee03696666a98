package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"derisk/app/balance"
	"derisk/app/config"
	"derisk/app/dashclient"
	"derisk/app/history"
	"derisk/app/models"
	"derisk/app/session"
	"derisk/pkg/log"
)

const backendRequestTimeout = 30 * time.Second

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	warning   = lipgloss.AdaptiveColor{Light: "#BF4343", Dark: "#F57373"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(warning).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(subtle)
)

type dashboard struct {
	session session.Service
	balance balance.Service
	backend dashclient.Service
	history *history.CachedFetcher

	wallet *models.WalletHandle
}

func main() {
	cfg, err := config.ParseDashboard()
	if err != nil {
		panic(err)
	}

	zlog := log.ConfigureLogger(cfg.Logging)
	defer func() {
		_ = zlog.Sync() // flush the logger
	}()

	backendSvc := &dashclient.Manager{
		Config: cfg.Backend,
		HttpClient: &http.Client{
			Timeout: backendRequestTimeout,
		},
	}
	d := &dashboard{
		session: &session.Manager{
			Connectors:     session.NewRPCConnectors(cfg.Wallet.Providers),
			Store:          &session.FileStore{Path: cfg.Wallet.SessionFile},
			ConnectTimeout: cfg.Wallet.ConnectTimeout,
		},
		balance: balance.NewManager(nil),
		backend: backendSvc,
		history: history.NewCachedFetcher(backendSvc),
	}

	if err := d.run(context.Background()); err != nil {
		fmt.Println(errorStyle.Render("error: " + err.Error()))
		os.Exit(1)
	}
}

func (d *dashboard) run(ctx context.Context) error {
	clearScreen()
	fmt.Println(headerStyle.Render("DERISK DASHBOARD"))

	// silently recover an existing session first
	wallet, err := d.session.GetSession(ctx)
	if err != nil {
		return err
	}
	if wallet == nil {
		if wallet, err = d.connect(ctx); err != nil {
			return err
		}
	}
	d.wallet = wallet
	fmt.Println(mutedStyle.Render("connected as " + wallet.SelectedAddress + " via " + wallet.ProviderID))

	for {
		var action string
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("What would you like to do?").
					Options(
						huh.NewOption("View balances", "balances"),
						huh.NewOption("View trade history", "history"),
						huh.NewOption("Set up a liquidation alert", "watcher"),
						huh.NewOption("Disconnect and quit", "disconnect"),
						huh.NewOption("Quit", "quit"),
					).
					Value(&action),
			),
		).Run()
		if err != nil {
			return err
		}

		switch action {
		case "balances":
			err = d.showBalances(ctx)
		case "history":
			err = d.showHistory(ctx)
		case "watcher":
			err = d.setUpWatcher(ctx)
		case "disconnect":
			if err := d.session.Disconnect(ctx); err != nil {
				fmt.Println(errorStyle.Render("disconnect warning: " + err.Error()))
			}
			return nil
		case "quit":
			return nil
		}
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
		}
	}
}

func (d *dashboard) connect(ctx context.Context) (*models.WalletHandle, error) {
	fmt.Println(sectionStyle.Render("CONNECT A WALLET"))
	if last := d.session.LastKnownAddress(); last != "" {
		fmt.Println(mutedStyle.Render("last seen address: " + last))
	}

	wallet, err := d.session.Connect(ctx, models.PromptAlways)
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

func (d *dashboard) showBalances(ctx context.Context) error {
	snapshot, err := d.balance.GetBalances(ctx, d.wallet, d.wallet.SelectedAddress)
	if err != nil {
		return err
	}

	fmt.Println(sectionStyle.Render("BALANCES (" + snapshot.Network + ")"))
	symbols := make([]string, 0, len(snapshot.Balances))
	for symbol := range snapshot.Balances {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	for _, symbol := range symbols {
		fmt.Printf("  %-6s %s\n", symbol, snapshot.Balances[symbol])
	}
	return nil
}

func (d *dashboard) showHistory(ctx context.Context) error {
	records, err := d.history.History(ctx, d.wallet.SelectedAddress)
	if err != nil {
		return err
	}

	fmt.Println(sectionStyle.Render("TRADE HISTORY"))
	if len(records) == 0 {
		fmt.Println(mutedStyle.Render("  no trades yet"))
		return nil
	}
	for _, record := range records {
		side := "buy"
		if record.IsSell {
			side = "sell"
		}
		fmt.Printf("  %s  %-4s %-6s %g\n", record.Timestamp, side, record.Token, record.Amount)
	}
	return nil
}

func (d *dashboard) setUpWatcher(ctx context.Context) error {
	protocolIDs, err := d.backend.ProtocolIDs(ctx)
	if err != nil {
		return err
	}

	options := make([]huh.Option[string], 0, len(protocolIDs))
	for _, id := range protocolIDs {
		options = append(options, huh.NewOption(id, id))
	}

	var (
		protocolID string
		levelStr   string
		telegramID string
	)
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Protocol").
				Options(options...).
				Value(&protocolID),
			huh.NewInput().
				Title("Health ratio level").
				Description("Alert when the health ratio drops to this value (0 < level <= 10)").
				Value(&levelStr).
				Validate(func(s string) error {
					level, err := strconv.ParseFloat(s, 64)
					if err != nil {
						return fmt.Errorf("must be a number")
					}
					if level <= 0 || level > 10 {
						return fmt.Errorf("must be above 0 and at most 10")
					}
					return nil
				}),
			huh.NewInput().
				Title("Telegram ID (optional)").
				Value(&telegramID),
		),
	).Run()
	if err != nil {
		return err
	}
	level, _ := strconv.ParseFloat(levelStr, 64)

	resp, err := d.backend.CreateWatcher(ctx, &models.SubscriptionRequest{
		WalletID:         d.wallet.SelectedAddress,
		HealthRatioLevel: level,
		ProtocolID:       protocolID,
		TelegramID:       telegramID,
	})
	if err != nil {
		return err
	}

	style := sectionStyle
	if !resp.Succeeded() {
		style = errorStyle
	}
	for _, message := range resp.Messages {
		fmt.Println(style.Render(message))
	}
	if resp.ActivationLink != "" {
		fmt.Println(mutedStyle.Render("activate telegram alerts: " + resp.ActivationLink))
	}
	return nil
}

func clearScreen() {
	fmt.Print("\033[H\033[2J")
}
