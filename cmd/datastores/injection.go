package main

import (
	"github.com/spf13/cobra"

	"github.com/stud0000299683/bd-special/internal/database"
	"github.com/stud0000299683/bd-special/internal/injection"
)

type payloadResult struct {
	Payload         string              `json:"payload"`
	Query           string              `json:"query"`
	Vulnerable      *injection.Account  `json:"vulnerable"`
	VulnerableError string              `json:"vulnerableError,omitempty"`
	Secure          *injection.Account  `json:"secure"`
	SecureNamed     *injection.Account  `json:"secureNamed"`
	SecureSearch    []injection.Account `json:"secureSearch"`
}

func newInjectionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "injection",
		Short: "Feed classic SQL injection payloads to vulnerable and bound queries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			db, err := a.openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			sqlDB, err := injection.OpenSQL(ctx, database.DSN(&a.cfg.Database))
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			lab := injection.NewLab(sqlDB, db.Pool, a.log)

			for _, p := range injection.Payloads {
				// A stacked payload may drop the table; every payload starts fresh.
				if err := lab.Setup(ctx); err != nil {
					return err
				}

				result := payloadResult{Payload: p.Input}

				account, query, err := lab.VulnerableAuth(ctx, p.Input)
				result.Query = query
				result.Vulnerable = account
				if err != nil {
					result.VulnerableError = err.Error()
				}

				if err := lab.Setup(ctx); err != nil {
					return err
				}
				if result.Secure, err = lab.SecureAuth(ctx, p.Input); err != nil {
					return err
				}
				if result.SecureNamed, err = lab.SecureAuthNamed(ctx, p.Input); err != nil {
					return err
				}
				if result.SecureSearch, err = lab.SecureSearch(ctx, p.Input); err != nil {
					return err
				}

				if err := a.print(p.Name, result); err != nil {
					return err
				}
			}

			admin := true
			accounts, query, args, err := lab.SecureFilter(ctx, injection.Filter{IsAdmin: &admin})
			if err != nil {
				return err
			}
			return a.print("secure filter", map[string]any{
				"query":    query,
				"args":     args,
				"accounts": accounts,
			})
		},
	}
}
