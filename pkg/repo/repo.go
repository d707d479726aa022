package repo

import (
	"path/filepath"
	"sync"

	"github.com/odvcencio/yit/pkg/graph"
	"github.com/odvcencio/yit/pkg/index"
	"github.com/odvcencio/yit/pkg/logging"
	"github.com/odvcencio/yit/pkg/object"
	"go.uber.org/zap"
)

// DirName is the name of the repository directory inside the working tree.
const DirName = ".yit"

// Repo represents an opened yit repository.
type Repo struct {
	RootDir string        // working directory root
	Dir     string        // .yit/ directory
	Store   *object.Store // content-addressed object store
	Config  *Config
	Logger  *zap.Logger

	graphOnce sync.Once
	graph     *graph.Graph
}

// Option configures Init and Open.
type Option func(*options)

type options struct {
	logger *zap.Logger
	config *Config
}

// WithLogger sets the logger used by the repository and its components.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithConfig sets the configuration written by Init. Open always reads the
// repository's own config.
func WithConfig(cfg *Config) Option {
	return func(o *options) { o.config = cfg }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = logging.OrNop(o.logger)
	return o
}

func newRepo(rootDir, dir string, cfg *Config, logger *zap.Logger) *Repo {
	return &Repo{
		RootDir: rootDir,
		Dir:     dir,
		Config:  cfg,
		Logger:  logger,
		Store: object.NewStore(dir,
			object.WithCompressionLevel(cfg.Core.CompressionLevel),
			object.WithCacheSize(cfg.Cache.Objects),
			object.WithLogger(logger.Named("object")),
		),
	}
}

// Graph returns the repository's memoized commit graph.
func (r *Repo) Graph() *graph.Graph {
	r.graphOnce.Do(func() {
		r.graph = graph.New(r.Store, r.Logger.Named("graph"))
	})
	return r.graph
}

func (r *Repo) indexPath() string {
	return filepath.Join(r.Dir, "index")
}

// LoadIndex reads the staging index, creating it when absent.
func (r *Repo) LoadIndex() (*index.Index, error) {
	return index.Load(r.indexPath(), r.Store, r.RootDir, r.Logger.Named("index"))
}
