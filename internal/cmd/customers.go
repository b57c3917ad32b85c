package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/helpscout/helpscout-cli/internal/api"
	"github.com/helpscout/helpscout-cli/internal/dates"
	"github.com/helpscout/helpscout-cli/internal/validation"
)

// validateCustomerInput runs the field checks shared by create and update.
func validateCustomerInput(firstName, lastName, email, phone string) error {
	for _, check := range []error{
		validation.Name("first name", firstName),
		validation.Name("last name", lastName),
		validation.Email(email),
		validation.Phone(phone),
	} {
		if check != nil {
			return api.NewValidationError("%s", check.Error())
		}
	}
	return nil
}

func newCustomersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "customers",
		Aliases: []string{"customer", "cust"},
		Short:   "Customer operations",
	}
	cmd.AddCommand(newCustomersListCmd())
	cmd.AddCommand(newCustomersViewCmd())
	cmd.AddCommand(newCustomersCreateCmd())
	cmd.AddCommand(newCustomersUpdateCmd())
	cmd.AddCommand(newCustomersDeleteCmd())
	return cmd
}

func newCustomersListCmd() *cobra.Command {
	var (
		p         pageFlags
		mailbox   string
		firstName string
		lastName  string
		ranges    dates.Ranges
		query     string
		sortField string
		sortOrder string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List customers",
		Long: `List customers. Date flags are combined with --query into one search
expression, e.g. (email:"a@b.com" AND createdAt:[2024-01-01T00:00:00Z TO *]).`,
		Example: `  helpscout customers list --first-name Jane --page 2
  helpscout customers list --created-since 2024-01-01 --created-before today
  helpscout customers list -q 'email:"jane@example.com"'`,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if err := p.validate(); err != nil {
				return err
			}
			order, err := normalizeEnum("sort-order", sortOrder, sortOrders)
			if err != nil {
				return err
			}
			q, err := dates.BuildQuery(ranges, query, nowFunc())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			client := getClient()
			mb, err := resolveMailbox(ctx, client, mailbox, false)
			if err != nil {
				return err
			}
			opts := api.ListCustomersOptions{
				Mailbox:   mb,
				FirstName: firstName,
				LastName:  lastName,
				Query:     q,
				SortField: sortField,
				SortOrder: order,
				Page:      p.Page,
			}
			if p.All {
				customers, err := client.Customers().ListAll(ctx, opts)
				if err != nil {
					return err
				}
				return printJSON(cmd, collection("customers", customers))
			}
			result, err := client.Customers().List(ctx, opts)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		}),
	}

	cmd.Flags().StringVarP(&mailbox, "mailbox", "m", "", "Mailbox ID or name")
	cmd.Flags().StringVar(&firstName, "first-name", "", "Filter by first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Filter by last name")
	cmd.Flags().StringVar(&ranges.CreatedSince, "created-since", "", "Created since (e.g., 2024-01-01, 2w ago)")
	cmd.Flags().StringVar(&ranges.CreatedBefore, "created-before", "", "Created before")
	cmd.Flags().StringVar(&ranges.ModifiedSince, "modified-since", "", "Modified since")
	cmd.Flags().StringVar(&ranges.ModifiedBefore, "modified-before", "", "Modified before")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Advanced search query")
	cmd.Flags().StringVar(&sortField, "sort-field", "", "Sort by field (createdAt, firstName, lastName, modifiedAt)")
	cmd.Flags().StringVar(&sortOrder, "sort-order", "", "Sort order: asc|desc")
	addPageFlags(cmd, &p, "Fetch every page")
	registerStaticCompletions(cmd, "sort-order", sortOrders)
	return cmd
}

func newCustomersViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "view <id>",
		Aliases: []string{"get", "show"},
		Short:   "View a customer",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0], "customer")
			if err != nil {
				return err
			}
			customer, err := getClient().Customers().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, customer)
		}),
	}
}

type createdResult struct {
	Message string `json:"message"`
	ID      int    `json:"id,omitempty"`
}

func newCustomersCreateCmd() *cobra.Command {
	var firstName, lastName, email, phone string

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a customer",
		Example: `  helpscout customers create --first-name Jane --last-name Doe --email jane@example.com`,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			req := api.CreateCustomerRequest{
				FirstName: strings.TrimSpace(firstName),
				LastName:  strings.TrimSpace(lastName),
			}
			if e := strings.TrimSpace(email); e != "" {
				req.Emails = []api.ContactValue{{Type: "work", Value: e}}
			}
			if ph := strings.TrimSpace(phone); ph != "" {
				req.Phones = []api.ContactValue{{Type: "work", Value: ph}}
			}
			if req.Empty() {
				return api.NewValidationError("Customer create requires at least one field")
			}
			if err := validateCustomerInput(req.FirstName, req.LastName, strings.TrimSpace(email), strings.TrimSpace(phone)); err != nil {
				return err
			}
			id, err := getClient().Customers().Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd, createdResult{Message: "Customer created", ID: id})
		}),
	}
	cmd.Flags().StringVar(&firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	return cmd
}

func newCustomersUpdateCmd() *cobra.Command {
	var req api.UpdateCustomerRequest

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a customer",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0], "customer")
			if err != nil {
				return err
			}
			if req.Empty() {
				return api.NewValidationError("Customer update requires at least one field to update")
			}
			if err := validateCustomerInput(req.FirstName, req.LastName, "", ""); err != nil {
				return err
			}
			if err := getClient().Customers().Update(cmd.Context(), id, req); err != nil {
				return err
			}
			return printMessage(cmd, "Customer updated")
		}),
	}
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&req.JobTitle, "job-title", "", "Job title")
	cmd.Flags().StringVar(&req.Location, "location", "", "Location")
	cmd.Flags().StringVar(&req.Organization, "organization", "", "Organization")
	cmd.Flags().StringVar(&req.Background, "background", "", "Background notes")
	return cmd
}

func newCustomersDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a customer",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := requireYes(yes, "customer"); err != nil {
				return err
			}
			id, err := parseIDArg(args[0], "customer")
			if err != nil {
				return err
			}
			if err := getClient().Customers().Delete(cmd.Context(), id); err != nil {
				return err
			}
			return printMessage(cmd, "Customer deleted")
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deletion")
	return cmd
}
