package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"coursehub/internal/concurrency"
	"coursehub/internal/config"
	"coursehub/internal/domain"
	"coursehub/internal/export"
	"coursehub/internal/mappers"
	"coursehub/internal/providers/strapi"
	"coursehub/internal/sftpclient"
	"coursehub/internal/sync"
)

// rosterSource is the part of the CMS the export reads.
type rosterSource interface {
	ListCoursesWithRosters(ctx context.Context) ([]domain.Course, []mappers.Roster, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

func main() {
	var (
		outPath    = flag.String("out", "COURSE-ROSTER.csv", "output csv path")
		uploadSFTP = flag.Bool("sftp", false, "upload the generated CSV via SFTP")
	)
	flag.Parse()

	// timeout general
	rootCtx, rootCancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer rootCancel()

	cfg := config.Load()

	roles, err := cfg.RoleIDs()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.CMSServiceIdentifier == "" || cfg.CMSServicePassword == "" {
		log.Fatal("missing env: CMS_SERVICE_IDENTIFIER / CMS_SERVICE_PASSWORD")
	}

	// asegura dir de salida
	if dir := filepath.Dir(*outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal(err)
		}
	}

	cms := strapi.New(cfg.CMSBaseURL, cfg.CMSTimeout, roles, zap.NewNop())
	auth, err := cms.Login(rootCtx, cfg.CMSServiceIdentifier, cfg.CMSServicePassword)
	if err != nil {
		log.Fatalf("cms login: %v", err)
	}

	rows, err := collect(rootCtx, cms.WithToken(auth.Token))
	if err != nil {
		log.Fatal(err)
	}
	if err := export.WriteRosterCSVFile(*outPath, rows); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %d enrollments to %s", len(rows), *outPath)

	if *uploadSFTP {
		remoteName := filepath.Base(*outPath)
		upCfg := sftpclient.FromConfig(cfg)

		upCtx, upCancel := context.WithTimeout(rootCtx, 5*time.Minute)
		defer upCancel()

		if err := sftpclient.UploadFile(upCtx, upCfg, *outPath, remoteName); err != nil {
			log.Fatal(err)
		}
		log.Printf("uploaded to sftp://%s:%d%s/%s", upCfg.Host, upCfg.Port, upCfg.RemoteDir, remoteName)
	}
}

// collect fetches courses (with rosters) and users in parallel and joins
// them into export rows.
func collect(ctx context.Context, src rosterSource) ([]export.RosterRow, error) {
	var (
		courses []domain.Course
		rosters []mappers.Roster
		users   []domain.User
	)
	err := concurrency.FetchAll(ctx,
		func(ctx context.Context) error {
			c, r, err := src.ListCoursesWithRosters(ctx)
			if err != nil {
				return fmt.Errorf("list courses: %w", err)
			}
			courses, rosters = c, r
			return nil
		},
		func(ctx context.Context) error {
			u, err := src.ListUsers(ctx)
			if err != nil {
				return fmt.Errorf("list users: %w", err)
			}
			users = u
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	return export.BuildRoster(courses, users, sync.DeriveEnrollments(rosters)), nil
}
