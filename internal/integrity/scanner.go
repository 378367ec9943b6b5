package integrity

import (
	"context"
	"fmt"

	"storefront/catalog/internal/domain"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Scanner struct {
	checker     Checker
	placeholder string
	workers     int
}

func NewScanner(checker Checker, placeholder string, workers int) *Scanner {
	return &Scanner{
		checker:     checker,
		placeholder: placeholder,
		workers:     max(workers, 1),
	}
}

type target struct {
	path      string
	thumbnail string
}

// Scan reports nodes whose thumbnail does not resolve, in pre-order. Each
// distinct reference is checked once; checks run concurrently.
func (s *Scanner) Scan(ctx context.Context, root *domain.Folder) ([]domain.MissingThumbnail, error) {
	var targets []target
	refIndex := make(map[string]int)
	var refs []string

	domain.Walk(root, func(path string, n domain.Node) {
		thumb := domain.ThumbnailOf(n)
		if thumb == "" || thumb == s.placeholder {
			return
		}
		targets = append(targets, target{path: path, thumbnail: thumb})
		if _, seen := refIndex[thumb]; !seen {
			refIndex[thumb] = len(refs)
			refs = append(refs, thumb)
		}
	})

	log.Infof("🔍 Checking %d thumbnail references across %d nodes", len(refs), len(targets))

	exists := make([]bool, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, ref := range refs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ok, err := s.checker.Exists(gctx, ref)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Warnf("⚠️ Thumbnail check failed for %s: %v", ref, err)
				return nil
			}
			exists[i] = ok
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("integrity scan interrupted: %w", err)
	}

	missing := make([]domain.MissingThumbnail, 0)
	for _, t := range targets {
		if !exists[refIndex[t.thumbnail]] {
			missing = append(missing, domain.MissingThumbnail{Path: t.path, Thumbnail: t.thumbnail})
		}
	}

	if len(missing) > 0 {
		log.Warnf("⚠️ %d nodes reference missing thumbnails", len(missing))
	} else {
		log.Info("✅ All thumbnail references resolve")
	}

	return missing, nil
}
