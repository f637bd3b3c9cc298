package cli

import (
	"errors"
	"fmt"

	"github.com/Adda-Baaj/taskprobe/internal/fixtures"
	"github.com/Adda-Baaj/taskprobe/pkg/taskapi"
	"github.com/spf13/cobra"
)

func newRegisterCmd(s *session) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register random users",
		Long: `Fetches a fresh random identity per user and registers it.
Successful registrations are printed keyed "0", "1", ... and saved to the
account ledger. Failed iterations are skipped and reported at the end.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}
			regs, err := s.probe.Register(cmd.Context(), count)
			if perr := printJSON(cmd.OutOrStdout(), regs); perr != nil {
				return perr
			}
			return err
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of users to register")
	return cmd
}

func newLoginCmd(s *session) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log a user in",
		Long: `Logs a user in. Without --password the password saved by a previous
register run is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := s.probe.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), doc)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().StringVar(&password, "password", "", "user password (defaults to the saved one)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newCreateTaskCmd(s *session) *cobra.Command {
	var task taskapi.Task
	cmd := &cobra.Command{
		Use:   "create-task",
		Short: "Create a task for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := s.probe.Client().CreateTask(cmd.Context(), task)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), doc)
		},
	}
	cmd.Flags().StringVar(&task.Title, "title", "", "task title")
	cmd.Flags().StringVar(&task.Description, "description", "", "task description")
	cmd.Flags().StringVar(&task.OwnerEmail, "owner", "", "owner email")
	cmd.Flags().StringVar(&task.AssignEmail, "assign", "", "assignee email")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("assign")
	return cmd
}

func newCreateCompanyCmd(s *session) *cobra.Command {
	var company taskapi.Company
	cmd := &cobra.Command{
		Use:   "create-company",
		Short: "Create a company and attach users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := s.probe.Client().CreateCompany(cmd.Context(), company)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), doc)
		},
	}
	cmd.Flags().StringVar(&company.Name, "name", "", "company name")
	cmd.Flags().StringVar(&company.Type, "type", "", "company type")
	cmd.Flags().StringSliceVar(&company.Users, "user", nil, "member email (repeatable)")
	cmd.Flags().StringVar(&company.OwnerEmail, "owner", "", "owner email")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

// profileFlags maps flag names to the Profile field they fill.
func profileFlags(p *taskapi.Profile) map[string]**string {
	return map[string]**string{
		"hobby":       &p.Hobby,
		"address":     &p.Address,
		"name1":       &p.Name1,
		"surname1":    &p.Surname1,
		"fathername1": &p.Fathername,
		"cat":         &p.Cat,
		"dog":         &p.Dog,
		"parrot":      &p.Parrot,
		"cavy":        &p.Cavy,
		"hamster":     &p.Hamster,
		"squirrel":    &p.Squirrel,
		"phone":       &p.Phone,
		"inn":         &p.INN,
		"gender":      &p.Gender,
		"birthday":    &p.Birthday,
		"date-start":  &p.DateStart,
	}
}

func newCreateUserCmd(s *session) *cobra.Command {
	var (
		user      taskapi.User
		withTasks bool
	)
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user with profile attributes",
		Long: `Creates a user. Profile flags that are not given are sent as null.
With --with-tasks the createuserwithtasks endpoint is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for name, field := range profileFlags(&user.Profile) {
				if cmd.Flags().Changed(name) {
					v, _ := cmd.Flags().GetString(name)
					*field = taskapi.String(v)
				}
			}

			create := s.probe.Client().CreateUser
			if withTasks {
				create = s.probe.Client().CreateUserWithTasks
			}
			doc, err := create(cmd.Context(), user)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), doc)
		},
	}
	cmd.Flags().StringVar(&user.Email, "email", "", "user email")
	cmd.Flags().StringVar(&user.Name, "name", "", "user name")
	cmd.Flags().IntSliceVar(&user.Tasks, "task", nil, "task id (repeatable)")
	cmd.Flags().IntSliceVar(&user.Companies, "company", nil, "company id (repeatable)")
	cmd.Flags().BoolVar(&withTasks, "with-tasks", false, "use the createuserwithtasks endpoint")
	for name := range profileFlags(&user.Profile) {
		cmd.Flags().String(name, "", "profile attribute "+name)
	}
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newAddAvatarCmd(s *session) *cobra.Command {
	var email, file string
	cmd := &cobra.Command{
		Use:   "add-avatar",
		Short: "Upload an avatar for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := s.probe.AddAvatarFile(cmd.Context(), email, file)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), doc)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().StringVar(&file, "file", "", "path to the image")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newDeleteAvatarCmd(s *session) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "delete-avatar",
		Short: "Delete the avatar of a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := s.probe.Client().DeleteAvatar(cmd.Context(), email)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), doc)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "user email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newSeedCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <scenario-file>",
		Short: "Create the companies, users, tasks and avatars listed in a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := fixtures.Load(args[0])
			if err != nil {
				return err
			}
			res, err := s.probe.Seed(cmd.Context(), sc)
			if perr := printJSON(cmd.OutOrStdout(), res); perr != nil {
				return errors.Join(perr, err)
			}
			return err
		},
	}
}

func newAccountsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List accounts saved by previous register runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			accs, err := s.probe.Accounts()
			if err != nil {
				return err
			}
			if len(accs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved accounts.")
				return nil
			}
			return printJSON(cmd.OutOrStdout(), accs)
		},
	}
}
