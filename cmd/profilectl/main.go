package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Dan9191/profile-service/internal/client"
	"github.com/Dan9191/profile-service/internal/form"
	"github.com/Dan9191/profile-service/internal/models"
	"github.com/Dan9191/profile-service/internal/tui"
	"github.com/Dan9191/profile-service/internal/validation"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var serverURL string
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	root := &cobra.Command{
		Use:          "profilectl",
		Short:        "Edit the financial profile used for property evaluation",
		SilenceUsage: true,
	}
	defaultURL := os.Getenv("PROFILE_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	root.PersistentFlags().StringVar(&serverURL, "server", defaultURL, "profile API base URL")

	api := func() *client.Client { return client.New(serverURL) }

	root.AddCommand(
		newEditCmd(api, logger),
		newShowCmd(api),
		newSetCmd(api),
	)
	return root
}

func newEditCmd(api func() *client.Client, logger *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open the interactive profile form",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := api()
			profile, err := c.GetProfile(ctx)
			if err != nil {
				return fmt.Errorf("failed to load profile: %w", err)
			}
			rate, err := c.GetReferenceRate(ctx)
			if err != nil {
				logger.WithError(err).Debug("Reference rate unavailable")
			}
			return tui.Run(ctx, c, profile, rate)
		},
	}
}

func newShowCmd(api func() *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := api().GetProfile(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load profile: %w", err)
			}
			printProfile(cmd.OutOrStdout(), profile)
			return nil
		},
	}
}

func newSetCmd(api func() *client.Client) *cobra.Command {
	values := make(map[string]*string)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Save a new profile from flags",
		RunE: func(cmd *cobra.Command, args []string) error {
			state := form.New(nil)
			for key, v := range values {
				state = state.Edit(key, *v)
			}
			state, payload, ok := state.StartSubmit()
			if !ok {
				return state.Errors
			}
			saved, err := api().SaveProfile(cmd.Context(), payload)
			if err != nil {
				return fmt.Errorf("保存に失敗しました: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "保存しました")
			printProfile(cmd.OutOrStdout(), saved)
			return nil
		},
	}
	flagNames := map[string]string{
		validation.AnnualIncome:     "annual-income",
		validation.Savings:          "savings",
		validation.InterestRate:     "interest-rate",
		validation.LoanTermYears:    "loan-term-years",
		validation.DownPaymentRatio: "down-payment-ratio",
	}
	for _, f := range validation.Fields() {
		values[f.Key] = cmd.Flags().String(flagNames[f.Key], "", fmt.Sprintf("%s（%s）", f.Label, f.Unit))
	}
	return cmd
}

func printProfile(w io.Writer, p *models.ProfileView) {
	if p == nil {
		fmt.Fprintln(w, "プロフィールは未登録です")
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"項目", "値"})
	table.Append([]string{"ID", strconv.FormatInt(p.ID, 10)})
	table.Append([]string{"年収（万円）", strconv.FormatInt(p.AnnualIncome, 10)})
	table.Append([]string{"貯蓄額（万円）", strconv.FormatInt(p.Savings, 10)})
	table.Append([]string{"想定金利（%）", strconv.FormatFloat(p.InterestRate, 'f', -1, 64)})
	table.Append([]string{"返済期間（年）", strconv.Itoa(p.LoanTermYears)})
	table.Append([]string{"頭金割合（%）", strconv.Itoa(p.DownPaymentRatio)})
	table.Append([]string{"登録日時", p.CreatedAt})
	table.Render()
}
