// Package mongo stores quotes in MongoDB, one collection per community.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/jsamuelsen/quotebook/internal/adapters/store"
	"github.com/jsamuelsen/quotebook/internal/domain"
)

// BackendName identifies this store in errors, logs and metrics.
const BackendName = "mongo"

// Document field names. "quote" matches collections written by earlier
// deployments of the bot.
const (
	fieldName      = "name"
	fieldQuote     = "quote"
	fieldCreatedAt = "createdAt"
)

const defaultConnectTimeout = 10 * time.Second

// Config configures the MongoDB connection.
type Config struct {
	// URL is the connection string. It may contain two %s placeholders that
	// receive the escaped User and Password.
	URL      string
	Database string
	User     string
	Password string

	ConnectTimeout time.Duration
	AppName        string
}

type quoteDocument struct {
	Name      string    `bson:"name"`
	Quote     string    `bson:"quote"`
	CreatedAt time.Time `bson:"createdAt,omitempty"`
}

// Store is a MongoDB-backed quote store.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	ready  atomic.Bool
	now    func() time.Time

	// indexed records collections whose unique name index is known to exist.
	indexed sync.Map
}

// Connect dials MongoDB and verifies the deployment answers a ping before
// reporting ready.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URL == "" || cfg.Database == "" {
		return nil, errors.New("mongo: url and database are required")
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	opts := options.Client().
		ApplyURI(connectionURI(cfg)).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	if cfg.AppName != "" {
		opts.SetAppName(cfg.AppName)
	}

	if cfg.User != "" && !strings.Contains(cfg.URL, "%s") {
		opts.SetAuth(options.Credential{Username: cfg.User, Password: cfg.Password})
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	s := &Store{
		client: client,
		db:     client.Database(cfg.Database),
		now:    time.Now,
	}
	s.ready.Store(true)

	return s, nil
}

// connectionURI fills %s placeholders in the URL with the escaped credentials.
func connectionURI(cfg Config) string {
	if strings.Count(cfg.URL, "%s") != 2 {
		return cfg.URL
	}

	return fmt.Sprintf(cfg.URL, escapeUserInfo(cfg.User), escapeUserInfo(cfg.Password))
}

func escapeUserInfo(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Close marks the store not ready and disconnects.
func (s *Store) Close(ctx context.Context) error {
	s.ready.Store(false)
	return s.client.Disconnect(ctx)
}

// Name implements store.Backend.
func (s *Store) Name() string {
	return BackendName
}

// Ready implements store.Backend.
func (s *Store) Ready() bool {
	return s.ready.Load()
}

// Ping implements store.Backend.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return mapError("ping", err)
	}

	return nil
}

// Get implements ports.QuoteStore. Case-insensitive lookups match the escaped
// name as an anchored regular expression with the "i" option.
func (s *Store) Get(ctx context.Context, community, name string, caseSensitive bool) (*domain.Quote, error) {
	if err := s.checkReady(); err != nil {
		return nil, err
	}

	var doc quoteDocument

	err := s.collection(community).FindOne(ctx, nameFilter(name, caseSensitive)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.NewNotFoundError(domain.EntityQuote, name)
	}

	if err != nil {
		return nil, mapError("get", err)
	}

	return doc.toDomain(community), nil
}

// Create implements ports.QuoteStore. The unique index on name rejects exact
// duplicates that race past the lookup.
func (s *Store) Create(ctx context.Context, community string, q domain.Quote, caseSensitive bool) (*domain.Quote, error) {
	if err := s.checkReady(); err != nil {
		return nil, err
	}

	coll := s.collection(community)

	if err := s.ensureIndexes(ctx, coll); err != nil {
		return nil, err
	}

	_, err := s.Get(ctx, community, q.Name, caseSensitive)
	switch {
	case err == nil:
		return nil, domain.NewAlreadyExistsError(domain.EntityQuote, q.Name)
	case !domain.IsNotFound(err):
		return nil, err
	}

	doc := quoteDocument{
		Name:      q.Name,
		Quote:     q.Text,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}

	if _, err := coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.NewAlreadyExistsError(domain.EntityQuote, q.Name)
		}

		return nil, mapError("create", err)
	}

	return doc.toDomain(community), nil
}

// Delete implements ports.QuoteStore.
func (s *Store) Delete(ctx context.Context, community, name string, caseSensitive bool) (bool, error) {
	if err := s.checkReady(); err != nil {
		return false, err
	}

	res, err := s.collection(community).DeleteOne(ctx, nameFilter(name, caseSensitive))
	if err != nil {
		return false, mapError("delete", err)
	}

	return res.DeletedCount > 0, nil
}

// Count implements ports.QuoteStore.
func (s *Store) Count(ctx context.Context, community string) (int, error) {
	if err := s.checkReady(); err != nil {
		return 0, err
	}

	n, err := s.collection(community).CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, mapError("count", err)
	}

	return int(n), nil
}

// ListPage implements ports.QuoteStore. Names sort by binary comparison.
func (s *Store) ListPage(ctx context.Context, community string, page, perPage int) (*domain.QuotePage, error) {
	if err := s.checkReady(); err != nil {
		return nil, err
	}

	if page < 0 || perPage <= 0 {
		return &domain.QuotePage{Names: []string{}}, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: fieldName, Value: 1}}).
		SetSkip(int64(page * perPage)).
		SetLimit(int64(perPage)).
		SetProjection(bson.D{{Key: fieldName, Value: 1}, {Key: "_id", Value: 0}})

	cursor, err := s.collection(community).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, mapError("list_page", err)
	}

	var docs []quoteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mapError("list_page", err)
	}

	names := make([]string, 0, len(docs))
	for _, doc := range docs {
		names = append(names, doc.Name)
	}

	return &domain.QuotePage{Names: names}, nil
}

// MaxPages implements ports.QuoteStore.
func (s *Store) MaxPages(ctx context.Context, community string, perPage int) (int, error) {
	n, err := s.Count(ctx, community)
	if err != nil {
		return 0, err
	}

	return domain.MaxPages(n, perPage), nil
}

// collection returns the community's collection. The community ID is used
// verbatim as the collection name.
func (s *Store) collection(community string) *mongo.Collection {
	return s.db.Collection(community)
}

// ensureIndexes creates the unique name index once per collection. The index
// takes the driver's default name, name_1, so existing deployments keep theirs.
func (s *Store) ensureIndexes(ctx context.Context, coll *mongo.Collection) error {
	if _, ok := s.indexed.Load(coll.Name()); ok {
		return nil
	}

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: fieldName, Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return mapError("create_index", err)
	}

	s.indexed.Store(coll.Name(), struct{}{})

	return nil
}

func (s *Store) checkReady() error {
	if !s.ready.Load() {
		return domain.NewUnavailableError(BackendName, "not ready")
	}

	return nil
}

func (d quoteDocument) toDomain(community string) *domain.Quote {
	return &domain.Quote{
		Community: community,
		Name:      d.Name,
		Text:      d.Quote,
		CreatedAt: d.CreatedAt,
	}
}

// nameFilter matches name exactly, or case-insensitively through an escaped
// anchored pattern.
func nameFilter(name string, caseSensitive bool) bson.D {
	if caseSensitive {
		return bson.D{{Key: fieldName, Value: name}}
	}

	return bson.D{{Key: fieldName, Value: bson.Regex{Pattern: store.NamePattern(name), Options: "i"}}}
}

// mapError converts driver errors into domain errors. Network failures,
// timeouts and a disconnected client are transient; everything else is a fault.
func mapError(op string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return domain.NewUnavailableError(BackendName, err.Error())
	case errors.Is(err, mongo.ErrClientDisconnected):
		return domain.NewUnavailableError(BackendName, "client disconnected")
	case mongo.IsTimeout(err), mongo.IsNetworkError(err):
		return domain.NewUnavailableError(BackendName, err.Error())
	default:
		return domain.NewFaultError("mongo "+op, err)
	}
}
