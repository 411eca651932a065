// Package session drives the interactive menu. The logged-in user is
// an explicit Session value handed to each operation, never package
// state.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/report"
	"fintrack/internal/storage"
)

// Session identifies the authenticated user for the duration of a
// login.
type Session struct {
	User core.Credential
}

// Controller runs the line-oriented prompt/response loop over the
// given reader and writer.
type Controller struct {
	in      *bufio.Scanner
	out     io.Writer
	creds   storage.CredentialStore
	ledgers storage.LedgerStore
	logger  *log.Logger
}

func New(in io.Reader, out io.Writer, creds storage.CredentialStore, ledgers storage.LedgerStore, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Controller{
		in:      bufio.NewScanner(in),
		out:     out,
		creds:   creds,
		ledgers: ledgers,
		logger:  logger.WithComponent(log.ComponentSession),
	}
}

// errInputClosed signals end of input; Run treats it as a normal exit.
var errInputClosed = errors.New("input closed")

// Run loops until the user exits or input ends.
func (c *Controller) Run(ctx context.Context) error {
	var sess *Session
	for {
		var err error
		if sess == nil {
			sess, err = c.mainMenu(ctx)
			if errors.Is(err, errExit) {
				return nil
			}
		} else {
			sess, err = c.userMenu(ctx, sess)
		}
		if errors.Is(err, errInputClosed) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// errExit is returned when the user picks Exit from the main menu.
var errExit = errors.New("exit")

func (c *Controller) mainMenu(ctx context.Context) (*Session, error) {
	fmt.Fprintln(c.out, "Welcome! Please choose an option:")
	fmt.Fprintln(c.out, "1. Register")
	fmt.Fprintln(c.out, "2. Login")
	fmt.Fprintln(c.out, "3. Exit")

	choice, err := c.prompt("Enter your choice: ")
	if err != nil {
		return nil, err
	}
	switch choice {
	case "1":
		return c.register(ctx)
	case "2":
		return c.login(ctx)
	case "3":
		fmt.Fprintln(c.out, "See you next time.")
		return nil, errExit
	default:
		fmt.Fprintln(c.out, "Invalid choice.")
		return nil, nil
	}
}

func (c *Controller) register(ctx context.Context) (*Session, error) {
	fmt.Fprintln(c.out, "User Registration")
	username, err := c.prompt("Enter a new username: ")
	if err != nil {
		return nil, err
	}
	password, err := c.prompt("Enter a new password: ")
	if err != nil {
		return nil, err
	}

	cred, err := c.creds.Register(ctx, username, password)
	switch {
	case errors.Is(err, storage.ErrUserExists):
		fmt.Fprintln(c.out, "Username already exists. Please try again.")
		return nil, nil
	case errors.Is(err, core.ErrEmptyUsername), errors.Is(err, core.ErrEmptyPassword):
		fmt.Fprintln(c.out, "Username and password must not be empty.")
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("register user: %w", err)
	}

	fmt.Fprintf(c.out, "User '%s' registered successfully!\n", cred.Username)
	return &Session{User: cred}, nil
}

func (c *Controller) login(ctx context.Context) (*Session, error) {
	fmt.Fprintln(c.out, "User Login")
	username, err := c.prompt("Enter your username: ")
	if err != nil {
		return nil, err
	}
	password, err := c.prompt("Enter your password: ")
	if err != nil {
		return nil, err
	}

	cred, err := c.creds.Authenticate(ctx, username, password)
	switch {
	case errors.Is(err, storage.ErrNoUsers):
		fmt.Fprintln(c.out, "No users found. Please register first.")
		return nil, nil
	case errors.Is(err, storage.ErrInvalidCredentials):
		fmt.Fprintln(c.out, "Invalid username or password. Please try again.")
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("authenticate user: %w", err)
	}

	fmt.Fprintf(c.out, "Login successful! Welcome, %s.\n", cred.Username)
	return &Session{User: cred}, nil
}

func (c *Controller) userMenu(ctx context.Context, sess *Session) (*Session, error) {
	fmt.Fprintf(c.out, "Logged in as %s\n", sess.User.Username)
	fmt.Fprintln(c.out, "1. Add Record")
	fmt.Fprintln(c.out, "2. View Report")
	fmt.Fprintln(c.out, "3. Delete Record")
	fmt.Fprintln(c.out, "4. Update Record")
	fmt.Fprintln(c.out, "5. Total Income and Expenses")
	fmt.Fprintln(c.out, "6. Spending Distribution")
	fmt.Fprintln(c.out, "7. Monthly Trends")
	fmt.Fprintln(c.out, "8. Logout")

	choice, err := c.prompt("Enter your choice: ")
	if err != nil {
		return nil, err
	}
	switch choice {
	case "1":
		return sess, c.addRecord(ctx, sess)
	case "2":
		return sess, c.viewReport(ctx, sess)
	case "3":
		return sess, c.deleteRecord(ctx, sess)
	case "4":
		return sess, c.updateRecord(ctx, sess)
	case "5":
		return sess, c.totals(ctx, sess)
	case "6":
		return sess, c.distribution(ctx, sess)
	case "7":
		return sess, c.trends(ctx, sess)
	case "8":
		fmt.Fprintf(c.out, "User '%s' logged out successfully!\n", sess.User.Username)
		return nil, nil
	default:
		fmt.Fprintln(c.out, "Invalid choice.")
		return sess, nil
	}
}

// inputRecord collects a new record from the user. Returns ok=false
// when the input was rejected (bad amount, unknown category).
func (c *Controller) inputRecord() (core.Record, bool, error) {
	fmt.Fprintln(c.out, "Add New Finance Record")
	description, err := c.prompt("Enter the description: ")
	if err != nil {
		return core.Record{}, false, err
	}
	raw, err := c.prompt("Enter the amount: ")
	if err != nil {
		return core.Record{}, false, err
	}
	amount, perr := core.ParseAmount(raw)
	if perr != nil {
		fmt.Fprintln(c.out, "Invalid amount.")
		return core.Record{}, false, nil
	}

	fmt.Fprintln(c.out, "Select the category:")
	fmt.Fprintln(c.out, "1. Income")
	fmt.Fprintln(c.out, "2. Expense")
	choice, err := c.prompt("Enter your choice (1/2): ")
	if err != nil {
		return core.Record{}, false, err
	}

	var selector core.Category
	switch choice {
	case "1":
		selector = core.Income
	case "2":
		selector = core.Expense
	}

	rec := core.NewRecord(description, amount, selector, core.Today())
	if rec.Category == core.Unknown {
		fmt.Fprintln(c.out, "Invalid category selected.")
		return core.Record{}, false, nil
	}
	if err := rec.Validate(); err != nil {
		fmt.Fprintf(c.out, "Invalid record: %v.\n", err)
		return core.Record{}, false, nil
	}
	return rec, true, nil
}

func (c *Controller) addRecord(ctx context.Context, sess *Session) error {
	rec, ok, err := c.inputRecord()
	if err != nil || !ok {
		return err
	}
	if err := c.ledgers.Append(ctx, sess.User.Username, rec); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	fmt.Fprintln(c.out, "Finance record added successfully.")
	return nil
}

func (c *Controller) viewReport(ctx context.Context, sess *Session) error {
	records, err := c.load(ctx, sess)
	if err != nil {
		return err
	}
	summary, ok := report.Describe(records)
	if !ok {
		fmt.Fprintln(c.out, "No records available to generate a report.")
		return nil
	}
	fmt.Fprintln(c.out, "Finance Report")
	renderSummary(c.out, summary)
	return nil
}

// pickIndex shows the ledger and asks for a 1-based record number,
// returning the 0-based index. The list is always re-displayed first
// because mutations shift positions.
func (c *Controller) pickIndex(records []core.Record, verb string) (int, bool, error) {
	if len(records) == 0 {
		fmt.Fprintln(c.out, "No records available.")
		return 0, false, nil
	}
	fmt.Fprintln(c.out, "Existing Records")
	renderRecords(c.out, records)

	raw, err := c.prompt(fmt.Sprintf("Enter record number to %s: ", verb))
	if err != nil {
		return 0, false, err
	}
	n, perr := strconv.Atoi(raw)
	if perr != nil {
		fmt.Fprintln(c.out, "Invalid record number.")
		return 0, false, nil
	}
	return n - 1, true, nil
}

func (c *Controller) deleteRecord(ctx context.Context, sess *Session) error {
	records, err := c.load(ctx, sess)
	if err != nil {
		return err
	}
	index, ok, err := c.pickIndex(records, "delete")
	if err != nil || !ok {
		return err
	}

	err = c.ledgers.DeleteAt(ctx, sess.User.Username, index)
	if errors.Is(err, storage.ErrIndexOutOfRange) {
		fmt.Fprintln(c.out, "Invalid record number.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	fmt.Fprintln(c.out, "Record deleted successfully!")
	return nil
}

func (c *Controller) updateRecord(ctx context.Context, sess *Session) error {
	records, err := c.load(ctx, sess)
	if err != nil {
		return err
	}
	index, ok, err := c.pickIndex(records, "update")
	if err != nil || !ok {
		return err
	}
	rec, ok, err := c.inputRecord()
	if err != nil || !ok {
		return err
	}

	err = c.ledgers.ReplaceAt(ctx, sess.User.Username, index, rec)
	if errors.Is(err, storage.ErrIndexOutOfRange) {
		fmt.Fprintln(c.out, "Invalid record number.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	fmt.Fprintln(c.out, "Record updated successfully!")
	return nil
}

func (c *Controller) totals(ctx context.Context, sess *Session) error {
	records, err := c.load(ctx, sess)
	if err != nil {
		return err
	}
	overview, ok := report.Totals(records)
	if !ok {
		fmt.Fprintln(c.out, "No records available to calculate totals.")
		return nil
	}
	fmt.Fprintln(c.out, "Financial Overview")
	renderOverview(c.out, overview)
	return nil
}

func (c *Controller) distribution(ctx context.Context, sess *Session) error {
	records, err := c.load(ctx, sess)
	if err != nil {
		return err
	}
	dist := report.Distribution(records)
	if len(dist) == 0 {
		fmt.Fprintln(c.out, "No records available to display distribution.")
		return nil
	}
	fmt.Fprintln(c.out, "Spending Distribution by Category")
	renderDistribution(c.out, dist)
	return nil
}

func (c *Controller) trends(ctx context.Context, sess *Session) error {
	records, err := c.load(ctx, sess)
	if err != nil {
		return err
	}
	trend := report.MonthlyTrend(records)
	if len(trend.Months) == 0 && trend.SkippedDates == 0 {
		fmt.Fprintln(c.out, "No records available to display trends.")
		return nil
	}
	fmt.Fprintln(c.out, "Monthly Spending Trends")
	renderTrend(c.out, trend)
	if trend.SkippedDates > 0 {
		fmt.Fprintf(c.out, "Warning: %d record(s) skipped due to unreadable dates.\n", trend.SkippedDates)
		c.logger.Warn("Records skipped in trend report",
			log.FieldUsername, sess.User.Username,
			log.FieldCount, trend.SkippedDates)
	}
	return nil
}

// load fetches a fresh snapshot of the session user's ledger.
func (c *Controller) load(ctx context.Context, sess *Session) ([]core.Record, error) {
	records, err := c.ledgers.Load(ctx, sess.User.Username)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return records, nil
}

func (c *Controller) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(c.in.Text()), nil
}
