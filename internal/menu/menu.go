package menu

import (
	"context"
	"errors"
	"io"

	"expensetracker/internal/auth"
	"expensetracker/internal/charts"
	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/services"
	"expensetracker/internal/trace"
)

// State is the authentication state of the loop.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

const (
	anonymousMenu = "\n1. Register\n2. Login\n3. Exit"

	authenticatedMenu = "\n1. Add Category\n2. Log Transaction\n3. View Summary\n4. Change Password" +
		"\n5. Update Category\n6. Delete Category\n7. List Transactions\n8. Export Spending Chart\n9. Logout"
)

// Deps are the operations the menu dispatches to.
type Deps struct {
	Auth         *auth.Service
	Categories   *services.CategoryService
	Transactions *services.TransactionService
	Summaries    *services.SummaryService
	ChartDir     string
	Logger       *log.Logger
}

type Menu struct {
	p       *prompter
	deps    Deps
	logger  *log.Logger
	session *auth.Session
	tracer  *trace.Tracer
}

func New(in io.Reader, out io.Writer, deps Deps) *Menu {
	logger := deps.Logger
	if logger == nil {
		logger = log.Discard()
	}
	return &Menu{
		p:      newPrompter(in, out),
		deps:   deps,
		logger: logger.WithComponent(log.ComponentMenu),
		tracer: trace.New(),
	}
}

// Metrics reports how many actions ran and how many failed.
func (m *Menu) Metrics() trace.Metrics {
	return m.tracer.Metrics()
}

// State reports whether a user is logged in.
func (m *Menu) State() State {
	if m.session != nil {
		return Authenticated
	}
	return Anonymous
}

// Run drives the loop until the user exits or input ends. Failures of a
// single action are reported and the loop goes on; only an unreadable
// input stream is returned as an error.
func (m *Menu) Run(ctx context.Context) error {
	ctx = log.NewContext(ctx, m.logger)
	for {
		var (
			exit bool
			err  error
		)
		if m.session == nil {
			exit, err = m.anonymousStep(ctx)
		} else {
			err = m.authenticatedStep(m.sessionContext(ctx))
		}

		if errors.Is(err, errInputClosed) {
			m.logger.InfoContext(ctx, "Input closed, exiting", log.FieldOperation, log.OpShutdown)
			return nil
		}
		if err != nil {
			return err
		}
		if exit {
			return nil
		}
	}
}

func (m *Menu) sessionContext(ctx context.Context) context.Context {
	return log.NewContext(ctx, m.session.Logger(m.logger))
}

func (m *Menu) anonymousStep(ctx context.Context) (bool, error) {
	m.p.println(anonymousMenu)
	choice, err := m.p.ask("Choose an option: ")
	if err != nil {
		return false, err
	}

	switch choice {
	case "1":
		return false, m.handle(ctx, log.OpRegister, m.register)
	case "2":
		return false, m.handle(ctx, log.OpLogin, m.login)
	case "3":
		m.p.println("Goodbye!")
		return true, nil
	default:
		m.p.println("Invalid choice. Please try again.")
		return false, nil
	}
}

func (m *Menu) authenticatedStep(ctx context.Context) error {
	m.p.println(authenticatedMenu)
	choice, err := m.p.ask("Choose an option: ")
	if err != nil {
		return err
	}

	switch choice {
	case "1":
		return m.handle(ctx, log.OpAddCategory, m.addCategory)
	case "2":
		return m.handle(ctx, log.OpLogTransaction, m.logTransaction)
	case "3":
		return m.handle(ctx, log.OpSummarize, m.viewSummary)
	case "4":
		return m.handle(ctx, log.OpChangePassword, m.changePassword)
	case "5":
		return m.handle(ctx, log.OpUpdateCategory, m.updateCategory)
	case "6":
		return m.handle(ctx, log.OpDeleteCategory, m.deleteCategory)
	case "7":
		return m.handle(ctx, log.OpListTransactions, m.listTransactions)
	case "8":
		return m.handle(ctx, log.OpRender, m.exportChart)
	case "9":
		m.logout(ctx)
		return nil
	default:
		m.p.println("Invalid option. Try again.")
		return nil
	}
}

// handle runs one action. Invalid input and unexpected errors are shown to
// the user; only input stream errors escape.
func (m *Menu) handle(ctx context.Context, name string, action func(context.Context) error) error {
	err := m.tracer.Run(ctx, name, action)
	if err == nil {
		return nil
	}

	var invalid errInvalidInput
	switch {
	case errors.Is(err, errInputClosed):
		return err
	case errors.As(err, &invalid):
		m.p.println(invalid.msg)
	default:
		log.FromContext(ctx).WithComponent(log.ComponentMenu).ErrorContext(ctx, "Action failed", log.FieldError, err)
		m.p.println("Error:", err)
	}
	return nil
}

func (m *Menu) register(ctx context.Context) error {
	username, err := m.p.ask("Enter username: ")
	if err != nil {
		return err
	}
	password, err := m.p.ask("Enter password: ")
	if err != nil {
		return err
	}

	_, err = m.deps.Auth.Register(ctx, username, password)
	if errors.Is(err, core.ErrDuplicateUsername) {
		m.p.println("Username already exists. Please try another one.")
		return nil
	}
	if err != nil {
		return err
	}
	m.p.println("User registered successfully.")
	return nil
}

func (m *Menu) login(ctx context.Context) error {
	username, err := m.p.ask("Enter username: ")
	if err != nil {
		return err
	}
	password, err := m.p.ask("Enter password: ")
	if err != nil {
		return err
	}

	session, err := m.deps.Auth.Login(ctx, username, password)
	if errors.Is(err, core.ErrInvalidCredentials) {
		m.p.println("Invalid username or password.")
		return nil
	}
	if err != nil {
		return err
	}

	m.session = session
	m.p.println("Login successful.")
	return nil
}

func (m *Menu) logout(ctx context.Context) {
	log.FromContext(ctx).WithComponent(log.ComponentMenu).InfoContext(ctx, "Logged out", log.FieldOperation, log.OpLogout)
	m.session = nil
	m.p.println("Logged out.")
}

func (m *Menu) userID() int64 {
	return m.session.User.ID
}

func (m *Menu) showCategories(ctx context.Context) error {
	categories, err := m.deps.Categories.ListCategories(ctx, m.userID())
	if err != nil {
		return err
	}
	m.p.println("Available Categories:")
	for _, c := range categories {
		m.p.printf("ID: %d, Name: %s\n", c.ID, c.Name)
	}
	return nil
}

func (m *Menu) addCategory(ctx context.Context) error {
	name, err := m.p.ask("Enter category name: ")
	if err != nil {
		return err
	}
	categoryType, err := m.p.askCategoryType("Enter category type (income/expense): ")
	if err != nil {
		return err
	}

	if _, err := m.deps.Categories.AddCategory(ctx, m.userID(), name, categoryType); err != nil {
		if errors.Is(err, core.ErrEmptyCategoryName) {
			return errInvalidInput{msg: "Category name cannot be empty."}
		}
		return err
	}
	m.p.println("Category added successfully.")
	return nil
}

func (m *Menu) updateCategory(ctx context.Context) error {
	if err := m.showCategories(ctx); err != nil {
		return err
	}
	categoryID, err := m.p.askID("Enter category ID to update: ")
	if err != nil {
		return err
	}
	name, err := m.p.ask("Enter new category name: ")
	if err != nil {
		return err
	}
	categoryType, err := m.p.askCategoryType("Enter new category type (income/expense): ")
	if err != nil {
		return err
	}

	updated, err := m.deps.Categories.UpdateCategory(ctx, m.userID(), categoryID, name, categoryType)
	if errors.Is(err, core.ErrEmptyCategoryName) {
		return errInvalidInput{msg: "Category name cannot be empty."}
	}
	if err != nil {
		return err
	}
	if !updated {
		m.p.println("No category with that ID was found.")
		return nil
	}
	m.p.println("Category updated successfully.")
	return nil
}

func (m *Menu) deleteCategory(ctx context.Context) error {
	if err := m.showCategories(ctx); err != nil {
		return err
	}
	categoryID, err := m.p.askID("Enter category ID to delete: ")
	if err != nil {
		return err
	}

	res, err := m.deps.Categories.DeleteCategory(ctx, m.userID(), categoryID)
	if errors.Is(err, core.ErrCategoryInUse) {
		m.p.println("Category is used by another user's transactions and cannot be deleted.")
		return nil
	}
	if err != nil {
		return err
	}
	if res.Categories == 0 {
		m.p.println("No category with that ID was found.")
		return nil
	}
	m.p.println("Category and related transactions deleted successfully.")
	return nil
}

func (m *Menu) logTransaction(ctx context.Context) error {
	if err := m.showCategories(ctx); err != nil {
		return err
	}
	categoryID, err := m.p.askID("Enter category ID: ")
	if err != nil {
		return err
	}
	amount, err := m.p.askAmount("Enter amount: ")
	if err != nil {
		return err
	}
	date, err := m.p.askDate("Enter transaction date (YYYY-MM-DD): ")
	if err != nil {
		return err
	}

	_, err = m.deps.Transactions.LogTransaction(ctx, m.userID(), categoryID, amount, date)
	if errors.Is(err, core.ErrCategoryNotFound) {
		m.p.println("Category not found.")
		return nil
	}
	if err != nil {
		return err
	}
	m.p.println("Transaction logged successfully.")
	return nil
}

func (m *Menu) viewSummary(ctx context.Context) error {
	summary, err := m.deps.Summaries.Summarize(ctx, m.userID())
	if err != nil {
		return err
	}

	m.p.printf("Total Income: $%s\n", core.FormatAmount(summary.TotalIncome))
	m.p.printf("Total Expense: $%s\n", core.FormatAmount(summary.TotalExpense))
	m.p.printf("Remaining Budget: $%s\n", core.FormatAmount(summary.RemainingBudget()))

	if summary.TopExpense == nil {
		m.p.println("No expenses recorded yet.")
		return nil
	}
	m.p.printf("Highest Spending Category: %s ($%s)\n", summary.TopExpense.Name, core.FormatAmount(summary.TopExpense.Amount))

	if len(summary.ByExpenseCategory) > 1 {
		m.p.println("Expenses by Category:")
		for _, ct := range summary.ByExpenseCategory {
			m.p.printf("  %s: $%s\n", ct.Name, core.FormatAmount(ct.Amount))
		}
	}
	return nil
}

func (m *Menu) changePassword(ctx context.Context) error {
	current, err := m.p.ask("Enter current password: ")
	if err != nil {
		return err
	}
	ok, err := m.deps.Auth.VerifyPassword(ctx, m.userID(), current)
	if err != nil {
		return err
	}
	if !ok {
		m.p.println("Current password is incorrect.")
		return nil
	}

	next, err := m.p.ask("Enter new password: ")
	if err != nil {
		return err
	}
	err = m.deps.Auth.ChangePassword(ctx, m.userID(), current, next)
	if errors.Is(err, core.ErrInvalidCredentials) {
		m.p.println("Current password is incorrect.")
		return nil
	}
	if err != nil {
		return err
	}
	m.p.println("Password changed successfully.")
	return nil
}

func (m *Menu) listTransactions(ctx context.Context) error {
	txns, err := m.deps.Transactions.ListTransactions(ctx, m.userID())
	if err != nil {
		return err
	}
	if len(txns) == 0 {
		m.p.println("No transactions recorded yet.")
		return nil
	}
	for _, t := range txns {
		m.p.printf("ID: %d, Date: %s, Category: %s, Amount: $%s\n",
			t.ID, t.Date.Format(core.DateLayout), t.CategoryName, core.FormatAmount(t.Amount))
	}
	return nil
}

func (m *Menu) exportChart(ctx context.Context) error {
	summary, err := m.deps.Summaries.Summarize(ctx, m.userID())
	if err != nil {
		return err
	}

	path, err := charts.WriteExpenseChart(m.deps.ChartDir, m.userID(), m.session.User.Username, summary.ByExpenseCategory)
	if errors.Is(err, charts.ErrNoExpenses) {
		m.p.println("No expenses recorded yet.")
		return nil
	}
	if err != nil {
		return err
	}

	log.FromContext(ctx).WithComponent(log.ComponentChart).InfoContext(ctx, "Expense chart written",
		log.FieldOperation, log.OpRender, log.FieldPath, path)
	m.p.printf("Spending chart written to %s\n", path)
	return nil
}
