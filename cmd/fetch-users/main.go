package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"coursehub/internal/authz"
	"coursehub/internal/commands"
	"coursehub/internal/config"
	"coursehub/internal/domain"
	"coursehub/internal/mappers"
	"coursehub/internal/providers"
	"coursehub/internal/providers/strapi"
)

type options struct {
	role    string // filtro de listado
	setRole string // "userID:role"
	dryRun  bool
}

func main() {
	var opts options
	flag.StringVar(&opts.role, "role", "", "only list users with this role (unregistered, normal_user, student, content_manager)")
	flag.StringVar(&opts.setRole, "set-role", "", "change one user's role, as userID:role")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "validate -set-role but do not update the CMS")
	flag.Parse()

	start := time.Now()

	err := run(opts, os.Stdout)

	log.Printf("Execution finished in %s", time.Since(start))

	if err != nil {
		log.Fatalf("Job failed: %v", err)
	}
}

func run(opts options, out io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cfg := config.Load()
	roles, err := cfg.RoleIDs()
	if err != nil {
		return err
	}
	if cfg.CMSServiceIdentifier == "" || cfg.CMSServicePassword == "" {
		return fmt.Errorf("missing env: CMS_SERVICE_IDENTIFIER / CMS_SERVICE_PASSWORD")
	}

	cms := strapi.New(cfg.CMSBaseURL, cfg.CMSTimeout, roles, zap.NewNop())
	log.Printf("Authenticating with the CMS...")
	auth, err := cms.Login(ctx, cfg.CMSServiceIdentifier, cfg.CMSServicePassword)
	if err != nil {
		return fmt.Errorf("cms auth error: %w", err)
	}

	return execute(ctx, cms.WithToken(auth.Token), roles, opts, out)
}

// execute runs the role change (if any) and then lists users.
func execute(ctx context.Context, cms providers.CMS, roles mappers.RoleIDs, opts options, out io.Writer) error {
	if opts.role != "" && !domain.Role(opts.role).Valid() {
		return fmt.Errorf("unknown role %q", opts.role)
	}

	if opts.setRole != "" {
		if err := changeRole(ctx, cms, roles, opts, out); err != nil {
			return err
		}
	}

	users, err := cms.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	log.Printf("Fetched %d users from the CMS", len(users))

	return printUsers(out, users, domain.Role(opts.role))
}

// changeRole goes through the same dispatcher as the manager page, so the
// service account needs the content_manager role.
func changeRole(ctx context.Context, cms providers.CMS, roles mappers.RoleIDs, opts options, out io.Writer) error {
	userID, role, ok := strings.Cut(opts.setRole, ":")
	if !ok || strings.TrimSpace(userID) == "" {
		return fmt.Errorf("-set-role wants userID:role, got %q", opts.setRole)
	}

	me, err := cms.Me(ctx)
	if err != nil {
		return fmt.Errorf("resolve service account: %w", err)
	}

	cmd := &commands.UpdateUserRole{UserID: strings.TrimSpace(userID), Role: domain.Role(strings.TrimSpace(role))}
	if opts.dryRun {
		env := commands.Env{Viewer: me, RoleIDs: roles}
		if !authz.Can(me.Role, cmd.Action()) {
			return fmt.Errorf("%s: %w", cmd.Kind(), commands.ErrForbidden)
		}
		if err := cmd.Prepare(commands.StrictCleaner(), env); err != nil {
			return err
		}
		fmt.Fprintf(out, "[DRY-RUN] would set user %s to %s\n", cmd.UserID, cmd.Role)
		return nil
	}

	st := &commands.State{}
	d := commands.NewDispatcher(cms, me, roles, authz.Manager, nil)
	if err := d.Dispatch(ctx, cmd, st); err != nil {
		return err
	}
	if len(st.Users) > 0 {
		fmt.Fprintf(out, "updated user %s to %s\n", st.Users[0].ID, st.Users[0].Role)
	}
	return nil
}

func printUsers(out io.Writer, users []domain.User, only domain.Role) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE")
	for _, u := range users {
		if only != "" && u.Role != only {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role)
	}
	return tw.Flush()
}
