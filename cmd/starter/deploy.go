package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/starter/internal/deploy"
)

func deployCmd(dir *string) *cobra.Command {
	var (
		bucket string
		prefix string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Upload the browser client to S3",
		Long: `Upload the browser client to an S3 bucket so a CDN can serve it.

Objects are keyed like the app serves them, under deploy.prefix:
  <prefix>/_starter/client.js

Credentials are read from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and
AWS_SESSION_TOKEN. Set deploy.endpoint for S3-compatible stores.

Examples:
  starter deploy --bucket=my-assets
  starter deploy --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*dir)
			if err != nil {
				return err
			}
			if bucket != "" {
				cfg.Deploy.Bucket = bucket
			}
			if cmd.Flags().Changed("prefix") {
				cfg.Deploy.Prefix = prefix
			}

			out := cmd.OutOrStdout()
			assets := deploy.ClientAssets()

			if dryRun {
				u, err := deploy.NewUploader(nil, cfg.Deploy)
				if err != nil {
					return err
				}
				for _, a := range assets {
					info(out, "s3://%s/%s (%s, %d bytes)", cfg.Deploy.Bucket, u.Key(a.Name), deploy.ContentType(a.Name), len(a.Body))
				}
				return nil
			}

			client, err := deploy.NewClient(cfg.Deploy)
			if err != nil {
				return err
			}
			u, err := deploy.NewUploader(client, cfg.Deploy)
			if err != nil {
				return err
			}
			results, err := u.Upload(cmd.Context(), assets)
			for _, r := range results {
				info(out, "s3://%s/%s", cfg.Deploy.Bucket, r.Key)
			}
			if err != nil {
				return err
			}
			success(out, "Uploaded %d file(s)", len(results))
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "Target bucket (default from starter.json)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix (default from starter.json)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List the objects without uploading")

	return cmd
}
