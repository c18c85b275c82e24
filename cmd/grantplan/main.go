package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"tutorbot/internal/domain"
	"tutorbot/internal/infra"
	"tutorbot/internal/sqlinline"
)

// grantplan changes a user's plan directly in the Postgres session store,
// bypassing the API. Operator use only.
func main() {
	var (
		idFlag        string
		usernameFlag  string
		planFlag      string
		keepUsageFlag bool
	)

	flag.StringVar(&idFlag, "id", "", "user ID to update")
	flag.StringVar(&usernameFlag, "username", "", "username to update")
	flag.StringVar(&planFlag, "plan", "basic", "plan to assign (free, basic, pro, unlimited)")
	flag.BoolVar(&keepUsageFlag, "keep-usage", false, "preserve current usage counters instead of resetting to 0")
	flag.Parse()

	userID := strings.TrimSpace(idFlag)
	username := strings.TrimPrefix(strings.TrimSpace(usernameFlag), "@")

	if userID == "" && username == "" {
		exitWithError(errors.New("either -id or -username must be provided"))
	}
	plan, err := domain.ParsePlanID(strings.ToLower(strings.TrimSpace(planFlag)))
	if err != nil {
		exitWithError(fmt.Errorf("unsupported plan %q", planFlag))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "grantplan").Logger()
	runner := infra.NewSQLRunner(pool, logger)

	lookupCtx, cancelLookup := context.WithTimeout(context.Background(), 5*time.Second)
	var rowData struct {
		UserID   string
		Username string
		Plan     string
		Messages int
		Tokens   int
	}
	var scanErr error
	if userID != "" {
		row := runner.QueryRow(lookupCtx, sqlinline.QSelectSessionPlanByUserID, userID)
		scanErr = row.Scan(&rowData.UserID, &rowData.Username, &rowData.Plan, &rowData.Messages, &rowData.Tokens)
	} else {
		row := runner.QueryRow(lookupCtx, sqlinline.QSelectSessionPlanByUsername, username)
		scanErr = row.Scan(&rowData.UserID, &rowData.Username, &rowData.Plan, &rowData.Messages, &rowData.Tokens)
	}
	cancelLookup()
	if scanErr != nil {
		exitWithError(fmt.Errorf("failed to load session: %w", scanErr))
	}

	updateCtx, cancelUpdate := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelUpdate()
	row := runner.QueryRow(updateCtx, sqlinline.QUpdateSessionPlan, rowData.UserID, string(plan), keepUsageFlag)

	var (
		updatedID       string
		updatedUsername string
		updatedPlan     string
		updatedMessages int
		updatedTokens   int
	)
	if err := row.Scan(&updatedID, &updatedUsername, &updatedPlan, &updatedMessages, &updatedTokens); err != nil {
		exitWithError(fmt.Errorf("failed to update session plan: %w", err))
	}

	fmt.Printf("User %s (@%s) updated to plan %s\n", updatedID, updatedUsername, updatedPlan)
	fmt.Printf("messages_used=%d tokens_used=%d\n", updatedMessages, updatedTokens)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
