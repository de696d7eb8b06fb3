package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/logilab/onyxia-composer/internal/adapters/in/cli/ui/styles"
	"github.com/logilab/onyxia-composer/internal/domain"
)

type createOptions struct {
	Name         string
	Version      string
	Description  string
	IconURL      string
	NotebookName string

	Repo     string
	Revision string
	Image    string
	Dir      string

	DryRun bool
	Output string

	// Set when the flag was given explicitly; explicit values win over what
	// the registry returns for an existing service.
	versionSet, descriptionSet, iconSet, notebookSet bool
}

// ErrVersionRejected is returned when the registry refuses the requested version.
var ErrVersionRejected = errors.New("version rejected by the registry")

func newCreateCmd(root *rootOptions) *cobra.Command {
	var opts createOptions

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create or update a service without the interactive form",
		Long: `Validates the name and version against the registry, then submits the
service. An existing service is updated; its published description and icon are
kept unless given on the command line.

Exactly one build source is required: --repo (with an optional --revision),
--image or --dir.`,
		Example: `  composer create --name myapp --repo https://github.com/org/myapp.git
  composer create --name myapp --image python:3.12 --version 1.1.0
  composer create --name myapp --dir /home/jovyan/work/app --dry-run -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			opts.versionSet = flags.Changed("version")
			opts.descriptionSet = flags.Changed("description")
			opts.iconSet = flags.Changed("icon")
			opts.notebookSet = flags.Changed("notebook")
			return runCreate(cmd.Context(), root.composer(), opts, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.Name, "name", "n", "", "Service name")
	flags.StringVarP(&opts.Version, "version", "v", domain.DefaultVersion, "Semantic version to publish")
	flags.StringVarP(&opts.Description, "description", "d", "", "Short description")
	flags.StringVar(&opts.IconURL, "icon", "", "Icon URL")
	flags.StringVar(&opts.NotebookName, "notebook", domain.DefaultNotebookName, "Notebook served by Voila")
	flags.StringVar(&opts.Repo, "repo", "", "Git repository URL to build from")
	flags.StringVar(&opts.Revision, "revision", "", "Branch or tag of --repo")
	flags.StringVar(&opts.Image, "image", "", "Docker image to run")
	flags.StringVar(&opts.Dir, "dir", "", "Local directory holding the app")
	flags.BoolVar(&opts.DryRun, "dry-run", false, "Print the create payload instead of submitting it")
	flags.StringVarP(&opts.Output, "output", "o", outputYAML, "Dry-run output format: yaml or json")

	_ = cmd.MarkFlagRequired("name")
	cmd.MarkFlagsMutuallyExclusive("repo", "image", "dir")
	cmd.MarkFlagsOneRequired("repo", "image", "dir")

	return cmd
}

func (o createOptions) source() (domain.SourceKind, string, error) {
	switch {
	case o.Repo != "":
		return domain.SourceFromRepo, o.Repo, nil
	case o.Revision != "":
		return "", "", fmt.Errorf("--revision requires --repo")
	case o.Image != "":
		return domain.SourceFromDockerImage, o.Image, nil
	case o.Dir != "":
		return domain.SourceFromLocalDirectory, o.Dir, nil
	}
	return "", "", fmt.Errorf("one of --repo, --image or --dir is required")
}

func runCreate(ctx context.Context, parts composerParts, opts createOptions, out io.Writer) error {
	if opts.DryRun {
		if err := checkOutputFormat(opts.Output, outputYAML, outputJSON); err != nil {
			return err
		}
	}

	kind, value, err := opts.source()
	if err != nil {
		return err
	}
	session := parts.session
	if err := session.Resolve(kind, value); err != nil {
		return err
	}
	session.SetRevision(opts.Revision)

	if err := parts.validator.OnNameChange(ctx, opts.Name); err != nil {
		return fmt.Errorf("unable to check name: %w", err)
	}
	if status := session.Status(); status.Visible {
		if err := cliWriteLine(out, cliRenderStatus(status, false)); err != nil {
			return err
		}
	}

	if opts.descriptionSet {
		session.SetDescription(opts.Description)
	}
	if opts.iconSet {
		session.SetIconURL(opts.IconURL)
	}
	if opts.notebookSet {
		session.SetNotebookName(opts.NotebookName)
	}
	// Without --version an existing service keeps its published tag, which the
	// registry refuses; checking it here fails before anything is submitted.
	version := opts.Version
	if !opts.versionSet && session.Draft().ExistsRemotely {
		version = session.Draft().Version
	}
	if err := parts.validator.OnVersionChange(ctx, version); err != nil {
		return fmt.Errorf("unable to check version: %w", err)
	}
	if status := session.Status(); status.Visible {
		if err := cliWriteLine(out, cliRenderStatus(status, true)); err != nil {
			return err
		}
		if !opts.versionSet {
			hint := fmt.Sprintf("pass --version with a version greater than %s to publish an update", version)
			if err := cliWriteLine(out, cliRenderMuted(hint)); err != nil {
				return err
			}
		}
		return ErrVersionRejected
	}

	draft := session.Draft()
	if opts.DryRun {
		if err := draft.Validate(); err != nil {
			return err
		}
		return writeStructured(out, opts.Output, draft.CreateRequest())
	}

	status, err := parts.controller.Submit(ctx)
	if err != nil {
		if werr := cliWriteLine(out, cliRenderStatus(status, true)); werr != nil {
			return werr
		}
		return err
	}
	if err := cliWriteLine(out, cliRenderStatus(status, false)); err != nil {
		return err
	}
	return cliWriteLine(out, cliRenderMeta("source", fmt.Sprintf("%s %s %s", styles.IconBullet, kind, value)))
}
