package cmd

import (
	"context"

	"github.com/foomo/keel"
	"github.com/foomo/keel/healthz"
	"github.com/foomo/keel/net/http/middleware"
	"github.com/foomo/keel/service"
	"github.com/foomo/sitegen/pkg/domains"
	"github.com/foomo/sitegen/pkg/handler"
	"github.com/foomo/sitegen/pkg/leads"
	"github.com/foomo/sitegen/pkg/repo"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func NewServeCommand() *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the editor api and site server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svr := keel.NewServer(
				keel.WithHTTPPrometheusService(servicePrometheusEnabledFlag(v)),
				keel.WithHTTPHealthzService(serviceHealthzEnabledFlag(v)),
				keel.WithPrometheusMeter(servicePrometheusEnabledFlag(v)),
				keel.WithGracefulPeriod(gracefulPeriodFlag(v)),
				keel.WithOTLPGRPCTracer(otelEnabledFlag(v)),
				keel.WithHTTPPProfService(servicePProfEnabledFlag(v)),
			)

			l := svr.Logger()

			storage, err := createStorage(cmd.Context(), v, l)
			if err != nil {
				return errors.Wrap(err, "failed to create storage")
			}

			history, err := repo.NewHistory(l.Named("inst.history"),
				repo.HistoryWithStorage(storage),
				repo.HistoryWithHistoryLimit(historyLimitFlag(v)),
			)
			if err != nil {
				return errors.Wrap(err, "failed to create history")
			}
			r := repo.New(l.Named("inst"), history)

			var store *leads.Store
			if path := databaseFlag(v); path != "" {
				if store, err = leads.Open(path); err != nil {
					return errors.Wrap(err, "failed to open lead database")
				}
				l.Info("storing leads", zap.String("database", path))
			}

			httpClient := newVendorHTTPClient(v)
			hosting := newVercel(l.Named("inst"), v, httpClient)
			payments := newStripe(l.Named("inst"), v, httpClient)

			capturerOpts := []leads.CapturerOption{
				leads.WithWebhookURL(leadWebhookURLFlag(v)),
				leads.WithHTTPClient(httpClient),
			}
			if store != nil {
				capturerOpts = append(capturerOpts, leads.WithStore(store))
			}

			opts := []handler.HTTPOption{
				handler.WithDeployer(hosting),
				handler.WithDomains(domains.NewService(l.Named("inst"), hosting, payments, domains.WithSiteRecorder(r))),
				handler.WithLeads(leads.NewCapturer(l.Named("inst"), capturerOpts...)),
				handler.WithPublicURL(publicURLFlag(v)),
				handler.WithAllowedOrigins(allowedOriginsFlag(v)...),
				handler.WithMaxUploadSize(uploadMaxSizeFlag(v)),
			}
			gen, err := newGenerator(l.Named("inst"), v, httpClient)
			if err != nil {
				return errors.Wrap(err, "failed to create generator")
			} else if gen != nil {
				opts = append(opts, handler.WithGenerator(gen))
			}

			isLoadedHealtherFn := healthz.NewHealthzerFn(func(ctx context.Context) error {
				if !r.Loaded() {
					return errors.New("repo not loaded yet")
				}
				return nil
			})
			svr.AddStartupHealthzers(isLoadedHealtherFn)
			svr.AddReadinessHealthzers(isLoadedHealtherFn)

			svr.AddClosers(func(ctx context.Context) error {
				err := r.Close()
				if store != nil {
					err = multierr.Append(err, store.Close())
				}
				return err
			})

			svr.AddServices(
				service.NewGoRoutine(l.Named("go.repo"), "repo", func(ctx context.Context, l *zap.Logger) error {
					return r.Load(ctx)
				}),
				service.NewHTTP(l.Named("svc.http"), "http", addressFlag(v),
					handler.NewHTTP(l.Named("inst.handler"), r, opts...),
					middleware.Telemetry(),
					middleware.Logger(),
					middleware.GZip(middleware.GZipWithLevel(gzipLevelFlag(v))),
					middleware.Recover(),
				),
			)

			svr.Run()
			return nil
		},
	}

	flags := cmd.Flags()
	addAddressFlag(flags, v)
	addPublicURLFlag(flags, v)
	addAllowedOriginsFlag(flags, v)
	addUploadMaxSizeFlag(flags, v)
	addHistoryDirFlag(flags, v)
	addHistoryLimitFlag(flags, v)
	addStorageTypeFlag(flags, v)
	addStorageBlobBucketFlag(flags, v)
	addStorageBlobPrefixFlag(flags, v)
	addDatabaseFlag(flags, v)
	addLeadWebhookURLFlag(flags, v)
	addVendorFlags(flags, v)
	addGracefulPeriodFlag(flags, v)
	addGzipLevelFlag(flags, v)
	addOtelEnabledFlag(flags, v)
	addServiceHealthzEnabledFlag(flags, v)
	addServicePrometheusEnabledFlag(flags, v)
	addServicePProfEnabledFlag(flags, v)

	return cmd
}

// createStorage creates a storage backend based on the configuration
func createStorage(ctx context.Context, v *viper.Viper, l *zap.Logger) (repo.Storage, error) {
	storageType := storageTypeFlag(v)
	blobBucket := storageBlobBucketFlag(v)
	blobPrefix := storageBlobPrefixFlag(v)

	if storageType != "blob" && (blobBucket != "" || blobPrefix != "") {
		l.Warn("blob storage flags are set but storage-type is not 'blob'; blob config will be ignored",
			zap.String("storage-type", storageType),
			zap.String("blob-bucket", blobBucket),
			zap.String("blob-prefix", blobPrefix),
		)
	}

	l.Info("creating storage",
		zap.String("type", storageType),
		zap.String("dir", historyDirFlag(v)),
		zap.String("bucket", blobBucket),
		zap.String("prefix", blobPrefix),
	)
	return repo.OpenStorage(ctx, storageType, historyDirFlag(v), blobBucket, blobPrefix)
}
