package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"bank-records-api/internal/kvstore"
	"bank-records-api/internal/model"
	"bank-records-api/internal/service"
)

// app is the terminal front end over the record services.
type app struct {
	customers    *service.CustomerService
	accounts     *service.AccountService
	cards        *service.ATMCardService
	transactions *service.TransactionService
	confirm      service.Confirmer

	stdout io.Writer
	stderr io.Writer
}

func newApp(ctx context.Context, store kvstore.Store, logger *slog.Logger, stdout, stderr io.Writer) (*app, error) {
	session, err := service.OpenSession(ctx, store)
	if err != nil {
		return nil, err
	}

	return &app{
		customers:    service.NewCustomerService(session, logger),
		accounts:     service.NewAccountService(session, logger),
		cards:        service.NewATMCardService(session, logger),
		transactions: service.NewTransactionService(session, service.NewBalanceEngine(session, logger), logger),
		confirm:      service.NeverConfirm,
		stdout:       stdout,
		stderr:       stderr,
	}, nil
}

var errUsage = errors.New("invalid arguments")

func (a *app) dispatch(ctx context.Context, args []string) int {
	var err error
	switch args[0] {
	case "customers":
		err = a.customerCommand(ctx, args[1], args[2:])
	case "accounts":
		err = a.accountCommand(ctx, args[1], args[2:])
	case "cards":
		err = a.cardCommand(ctx, args[1], args[2:])
	case "transactions":
		err = a.transactionCommand(ctx, args[1], args[2:])
	default:
		err = fmt.Errorf("%w: unknown screen %q", errUsage, args[0])
	}

	if err != nil {
		return a.alert(err)
	}
	return 0
}

// alert prints err as a red notification and returns the exit status.
func (a *app) alert(err error) int {
	red := color.New(color.FgRed)

	var serviceErr *service.ServiceError
	switch {
	case errors.As(err, &serviceErr):
		red.Fprintln(a.stderr, serviceErr.Message)
		return 1
	case errors.Is(err, errUsage):
		red.Fprintln(a.stderr, err)
		fmt.Fprint(a.stderr, usage)
		return 2
	default:
		red.Fprintln(a.stderr, "Error:", err)
		return 1
	}
}

func (a *app) success(format string, args ...any) {
	color.New(color.FgGreen).Fprintf(a.stdout, format+"\n", args...)
}

func (a *app) warn(messages []string) {
	for _, m := range messages {
		color.New(color.FgYellow).Fprintln(a.stderr, "Warning:", m)
	}
}

func (a *app) table(header string, rows func(w io.Writer)) {
	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, header)
	rows(w)
	w.Flush()
}

func want(args []string, n int, form string) error {
	if len(args) != n {
		return fmt.Errorf("%w: expected %s", errUsage, form)
	}
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", errUsage, s)
	}
	return id, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid amount %q", errUsage, s)
	}
	return d, nil
}

func (a *app) customerCommand(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "list":
		a.table("ID\tNAME\tEMAIL\tPHONE", func(w io.Writer) {
			for _, c := range a.customers.List(ctx) {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Phone)
			}
		})
		return nil

	case "show":
		if err := want(args, 1, "show <id>"); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		c, err := a.customers.Get(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Customer %d: %s <%s> %s\n", c.ID, c.Name, c.Email, c.Phone)
		return nil

	case "add":
		if err := want(args, 3, "add <name> <email> <phone>"); err != nil {
			return err
		}
		c, err := a.customers.Create(ctx, &model.CustomerRequest{Name: args[0], Email: args[1], Phone: args[2]})
		if err != nil {
			return err
		}
		a.success("Customer created: ID=%d", c.ID)
		return nil

	case "edit":
		if err := want(args, 4, "edit <id> <name> <email> <phone>"); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if _, err := a.customers.Update(ctx, id, &model.CustomerRequest{Name: args[1], Email: args[2], Phone: args[3]}); err != nil {
			return err
		}
		a.success("Customer %d updated", id)
		return nil

	case "delete":
		if err := want(args, 1, "delete <id>"); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := a.customers.Delete(ctx, id, a.confirm); err != nil {
			return err
		}
		a.success("Customer %d deleted", id)
		return nil
	}
	return fmt.Errorf("%w: unknown customers command %q", errUsage, cmd)
}

func (a *app) accountCommand(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "list":
		a.table("ID\tNUMBER\tCUSTOMER\tBALANCE", func(w io.Writer) {
			for _, acc := range a.accounts.List(ctx) {
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", acc.ID, acc.AccountNumber, acc.CustomerID, acc.Balance.StringFixed(2))
			}
		})
		return nil

	case "show":
		if err := want(args, 1, "show <id>"); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		acc, err := a.accounts.Get(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Account %d (%s) customer=%d balance=%s\n", acc.ID, acc.AccountNumber, acc.CustomerID, acc.Balance.StringFixed(2))
		return nil

	case "add":
		if len(args) != 2 && len(args) != 3 {
			return fmt.Errorf("%w: expected add <number> <customer_id> [balance]", errUsage)
		}
		customerID, err := parseID(args[1])
		if err != nil {
			return err
		}
		req := &model.AccountRequest{AccountNumber: args[0], CustomerID: customerID}
		if len(args) == 3 {
			balance, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			req.Balance = &balance
		}
		acc, err := a.accounts.Create(ctx, req)
		if err != nil {
			return err
		}
		a.success("Account created: ID=%d, Balance=%s", acc.ID, acc.Balance.StringFixed(2))
		return nil

	case "edit":
		if err := want(args, 3, "edit <id> <number> <customer_id>"); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		customerID, err := parseID(args[2])
		if err != nil {
			return err
		}
		if _, err := a.accounts.Update(ctx, id, &model.AccountRequest{AccountNumber: args[1], CustomerID: customerID}); err != nil {
			return err
		}
		a.success("Account %d updated", id)
		return nil

	case "delete":
		if err := want(args, 1, "delete <id>"); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := a.accounts.Delete(ctx, id, a.confirm); err != nil {
			return err
		}
		a.success("Account %d deleted", id)
		return nil
	}
	return fmt.Errorf("%w: unknown accounts command %q", errUsage, cmd)
}

func (a *app) cardCommand(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "list":
		a.table("ID\tCARD NUMBER\tACCOUNT", func(w io.Writer) {
			for _, c := range a.cards.List(ctx) {
				fmt.Fprintf(w, "%d\t%s\t%d\n", c.ID, c.CardNumber, c.AccountID)
			}
		})
		return nil

	case "show":
		if err := want(args, 1, "show <id>"); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		c, err := a.cards.Get(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "ATM card %d (%s) account=%d\n", c.ID, c.CardNumber, c.AccountID)
		return nil

	case "add", "edit":
		n, form := 2, "add <card_number> <account_id>"
		if cmd == "edit" {
			n, form = 3, "edit <id> <card_number> <account_id>"
		}
		if err := want(args, n, form); err != nil {
			return err
		}

		var id int64
		if cmd == "edit" {
			var err error
			if id, err = parseID(args[0]); err != nil {
				return err
			}
			args = args[1:]
		}
		accountID, err := parseID(args[1])
		if err != nil {
			return err
		}
		req := &model.ATMCardRequest{CardNumber: args[0], AccountID: accountID}

		if cmd == "add" {
			c, err := a.cards.Create(ctx, req)
			if err != nil {
				return err
			}
			a.success("ATM card created: ID=%d", c.ID)
			return nil
		}
		if _, err := a.cards.Update(ctx, id, req); err != nil {
			return err
		}
		a.success("ATM card %d updated", id)
		return nil

	case "delete":
		if err := want(args, 1, "delete <id>"); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := a.cards.Delete(ctx, id, a.confirm); err != nil {
			return err
		}
		a.success("ATM card %d deleted", id)
		return nil
	}
	return fmt.Errorf("%w: unknown cards command %q", errUsage, cmd)
}

func (a *app) transactionCommand(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "list":
		a.table("ID\tCARD\tTYPE\tAMOUNT\tDATE\tREVERSED", func(w io.Writer) {
			for _, t := range a.transactions.List(ctx) {
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%t\n",
					t.ID, t.ATMCardID, t.Type, t.Amount.StringFixed(2), t.Date.Format("2006-01-02 15:04"), t.Reversed)
			}
		})
		return nil

	case "show":
		if err := want(args, 1, "show <id>"); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		t, err := a.transactions.Get(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Transaction %d: %s %s card=%d reversed=%t\n", t.ID, t.Type, t.Amount.StringFixed(2), t.ATMCardID, t.Reversed)
		return nil

	case "deposit", "withdraw":
		if err := want(args, 2, cmd+" <card_id> <amount>"); err != nil {
			return err
		}
		cardID, err := parseID(args[0])
		if err != nil {
			return err
		}
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		typ := model.TransactionTypeDeposit
		if cmd == "withdraw" {
			typ = model.TransactionTypeWithdrawal
		}

		resp, err := a.transactions.Submit(ctx, &model.TransactionRequest{ATMCardID: cardID, Type: typ, Amount: amount})
		if err != nil {
			return err
		}
		a.warn(resp.Warnings)
		if resp.Balance != nil {
			a.success("Transaction %d booked. Account %d balance: %s",
				resp.Transaction.ID, resp.Balance.AccountID, resp.Balance.Balance.StringFixed(2))
		} else {
			a.success("Transaction %d booked", resp.Transaction.ID)
		}
		return nil

	case "reverse":
		if err := want(args, 1, "reverse <id>"); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		resp, err := a.transactions.Reverse(ctx, id, a.confirm)
		if err != nil {
			return err
		}
		a.warn(resp.Warnings)
		a.success("Transaction %d reversed by transaction %d", resp.Original.ID, resp.Reversal.ID)
		return nil

	case "edit":
		if err := want(args, 1, "edit <id>"); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		_, err = a.transactions.Update(ctx, id, nil)
		return err

	case "delete":
		if err := want(args, 1, "delete <id>"); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := a.transactions.Delete(ctx, id, a.confirm); err != nil {
			return err
		}
		a.success("Transaction %d deleted", id)
		return nil
	}
	return fmt.Errorf("%w: unknown transactions command %q", errUsage, cmd)
}
