package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/samandr77/healthportal/internal/documents"
	"github.com/samandr77/healthportal/internal/entity"
	"github.com/samandr77/healthportal/internal/notify"
)

func docsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "docs",
		Short:       "List, upload, edit, review, preview and download documents",
		Args:        cobra.NoArgs,
		Annotations: withSession(sessionRestore),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		docsListCmd(a),
		docsUploadCmd(a),
		docsUpdateCmd(a),
		docsStatusCmd(a),
		docsBulkUpdateCmd(a),
		docsDeleteCmd(a),
		docsBulkDeleteCmd(a),
		docsPreviewCmd(a),
		docsDownloadCmd(a),
	)

	return cmd
}

// signedIn wraps a docs handler so it only runs with an authenticated session.
func signedIn(a *app, run func(ctx context.Context) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		err := a.requireSession()
		if err != nil {
			return err
		}

		return run(cmd.Context())
	}
}

type listFlags struct {
	patient, doctor string
	criteria        documents.Criteria
}

func (l *listFlags) register(f *pflag.FlagSet) {
	f.StringVar(&l.patient, "patient", "", "patient id")
	f.StringVar(&l.doctor, "doctor", "", "doctor id")
	f.StringVar(&l.criteria.Search, "search", "", "match name or type")
	f.StringVar(&l.criteria.Status, "status", documents.StatusAll, "status filter")
	f.StringVar(&l.criteria.StartDate, "from", "", "created on or after, YYYY-MM-DD")
	f.StringVar(&l.criteria.EndDate, "to", "", "created on or before, YYYY-MM-DD")
}

// load fetches the list and narrows it locally.
func (l *listFlags) load(ctx context.Context, a *app) ([]entity.Document, error) {
	err := l.criteria.Validate()
	if err != nil {
		return nil, err
	}

	l.criteria.Location = time.Local

	_, err = a.docs.List(ctx, l.patient, l.doctor)
	if err != nil {
		return nil, err
	}

	return a.docs.Visible(l.criteria), nil
}

func docsListCmd(a *app) *cobra.Command {
	var lf listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents matching the filters",
		Args:  cobra.NoArgs,
		RunE: signedIn(a, func(ctx context.Context) error {
			docs, err := lf.load(ctx, a)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTATUS\tPATIENT\tDOCTOR\tCREATED")

			for _, d := range docs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					d.ID, d.Name, d.Type, d.Status, d.PatientID, d.DoctorID, d.CreatedAt.Local().Format("2006-01-02"))
			}

			return w.Flush()
		}),
	}

	lf.register(cmd.Flags())

	return cmd
}

func openFile(path string) (*entity.File, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, entity.NewValidationError("file", fmt.Sprintf("Cannot open %s", path))
	}

	name := filepath.Base(path)

	return &entity.File{
		Name:        name,
		ContentType: mime.TypeByExtension(filepath.Ext(name)),
		Content:     f,
	}, func() { _ = f.Close() }, nil
}

func docsUploadCmd(a *app) *cobra.Command {
	var (
		in                    entity.NewDocument
		path, docType, status string
	)

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a new document",
		Args:  cobra.NoArgs,
		RunE: signedIn(a, func(ctx context.Context) error {
			in.Type = entity.DocType(docType)
			in.Status = entity.DocStatus(status)

			if path != "" {
				file, done, err := openFile(path)
				if err != nil {
					return err
				}
				defer done()

				in.File = file
			}

			doc, err := a.docs.Upload(ctx, in)
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, notify.Success("Uploaded %s as %s", doc.Name, doc.ID))

			return nil
		}),
	}

	f := cmd.Flags()
	f.StringVar(&path, "file", "", "file to upload")
	f.StringVar(&in.Name, "name", "", "document name")
	f.StringVar(&docType, "type", string(entity.DocTypeOther), "document type")
	f.StringVar(&status, "status", "", "initial status")
	f.StringVar(&in.PatientID, "patient", "", "patient id")
	f.StringVar(&in.DoctorID, "doctor", "", "doctor id")

	return cmd
}

// changeFlags binds the editable fields; only flags given on the command line become changes.
type changeFlags struct {
	name, docType, status, patient, doctor string
}

func (c *changeFlags) register(f *pflag.FlagSet, fields ...string) {
	for _, field := range fields {
		switch field {
		case "name":
			f.StringVar(&c.name, "name", "", "new name")
		case "type":
			f.StringVar(&c.docType, "type", "", "new type")
		case "status":
			f.StringVar(&c.status, "status", "", "new status")
		case "patient":
			f.StringVar(&c.patient, "patient", "", "new patient id")
		case "doctor":
			f.StringVar(&c.doctor, "doctor", "", "new doctor id")
		}
	}
}

func (c *changeFlags) changes(f *pflag.FlagSet) entity.DocumentChanges {
	var out entity.DocumentChanges

	if f.Changed("name") {
		out.Name = &c.name
	}

	if f.Changed("type") {
		t := entity.DocType(c.docType)
		out.Type = &t
	}

	if f.Changed("status") {
		s := entity.DocStatus(c.status)
		out.Status = &s
	}

	if f.Changed("patient") {
		out.PatientID = &c.patient
	}

	if f.Changed("doctor") {
		out.DoctorID = &c.doctor
	}

	return out
}

func docsUpdateCmd(a *app) *cobra.Command {
	var (
		cf       changeFlags
		id, path string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Edit the fields of one document",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = signedIn(a, func(ctx context.Context) error {
		changes := cf.changes(cmd.Flags())

		if path != "" {
			file, done, err := openFile(path)
			if err != nil {
				return err
			}
			defer done()

			changes.File = file
		}

		doc, changed, err := a.docs.Update(ctx, id, changes)
		if err != nil {
			return err
		}

		if !changed {
			fmt.Fprintln(a.out, notify.Info("Nothing to update"))
			return nil
		}

		fmt.Fprintln(a.out, notify.Success("Updated %s", doc.Name))

		return nil
	})

	f := cmd.Flags()
	f.StringVar(&id, "id", "", "document id")
	f.StringVar(&path, "file", "", "replacement file")
	cf.register(f, "name", "type", "status", "patient", "doctor")

	return cmd
}

func docsStatusCmd(a *app) *cobra.Command {
	var id, status string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Move a document through review",
		Args:  cobra.NoArgs,
		RunE: signedIn(a, func(ctx context.Context) error {
			doc, err := a.docs.UpdateStatus(ctx, id, entity.DocStatus(status))
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, notify.Success("%s is now %s", doc.Name, doc.Status))

			return nil
		}),
	}

	cmd.Flags().StringVar(&id, "id", "", "document id")
	cmd.Flags().StringVar(&status, "status", "", "Pending, Doctor Review, Approved or Rejected")

	return cmd
}

// selectFlags chooses the target of a bulk command: explicit ids, or every document matching the filters.
type selectFlags struct {
	ids  []string
	all  bool
	list listFlags
}

func (s *selectFlags) register(f *pflag.FlagSet) {
	f.StringSliceVar(&s.ids, "ids", nil, "comma separated document ids")
	f.BoolVar(&s.all, "all", false, "select every document matching the filters")
	f.StringVar(&s.list.criteria.Search, "search", "", "match name or type")
	f.StringVar(&s.list.criteria.StartDate, "from", "", "created on or after, YYYY-MM-DD")
	f.StringVar(&s.list.criteria.EndDate, "to", "", "created on or before, YYYY-MM-DD")
}

func (s *selectFlags) selected(ctx context.Context, a *app) ([]string, error) {
	sel := documents.NewSelection()

	// loading first lets ownership of every selected document be checked locally
	visible, err := s.list.load(ctx, a)
	if err != nil {
		return nil, err
	}

	if s.all {
		sel.ToggleAll(visible)
	}

	for _, id := range s.ids {
		if id = strings.TrimSpace(id); id != "" && !sel.Contains(id) {
			sel.Toggle(id)
		}
	}

	return sel.IDs(), nil
}

func docsBulkUpdateCmd(a *app) *cobra.Command {
	var (
		sf selectFlags
		cf changeFlags
	)

	cmd := &cobra.Command{
		Use:   "bulk-update",
		Short: "Apply the same change to the selected documents",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = signedIn(a, func(ctx context.Context) error {
		changes := cf.changes(cmd.Flags())

		ids, err := sf.selected(ctx, a)
		if err != nil {
			return err
		}

		err = a.docs.BulkUpdate(ctx, ids, changes)
		if err != nil {
			return err
		}

		fmt.Fprintln(a.out, notify.Success("Updated %d documents", len(ids)))

		return nil
	})

	sf.register(cmd.Flags())
	cf.register(cmd.Flags(), "type", "status", "doctor")

	return cmd
}

func docsDeleteCmd(a *app) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete one document",
		Args:  cobra.NoArgs,
		RunE: signedIn(a, func(ctx context.Context) error {
			err := a.docs.Delete(ctx, id)
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, notify.Success("Document deleted"))

			return nil
		}),
	}

	cmd.Flags().StringVar(&id, "id", "", "document id")

	return cmd
}

func docsBulkDeleteCmd(a *app) *cobra.Command {
	var sf selectFlags

	cmd := &cobra.Command{
		Use:   "bulk-delete",
		Short: "Delete the selected documents",
		Args:  cobra.NoArgs,
		RunE: signedIn(a, func(ctx context.Context) error {
			ids, err := sf.selected(ctx, a)
			if err != nil {
				return err
			}

			err = a.docs.BulkDelete(ctx, ids)
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, notify.Success("Deleted %d documents", len(ids)))

			return nil
		}),
	}

	sf.register(cmd.Flags())

	return cmd
}

func docsPreviewCmd(a *app) *cobra.Command {
	var (
		id   string
		zoom int
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print where a document can be previewed",
		Args:  cobra.NoArgs,
		RunE: signedIn(a, func(ctx context.Context) error {
			doc, err := a.docs.Get(ctx, id)
			if err != nil {
				return err
			}

			p, err := a.docs.ResolvePreview(ctx, doc)
			if err != nil {
				return err
			}

			if p.Fallback {
				fmt.Fprintln(a.out, notify.Info("Preview is unavailable, opening the original file"))
			}

			fmt.Fprintf(a.out, "%s\t%s\n", p.Kind, p.URL)

			if p.Kind == documents.PreviewImage {
				v := documents.NewImageViewer()

				for i := zoom; i > 0; i-- {
					v.ZoomIn()
				}

				for i := zoom; i < 0; i++ {
					v.ZoomOut()
				}

				fmt.Fprintf(a.out, "zoom\t%s%%\n", v.Zoom().Shift(2).StringFixed(0))
			}

			return nil
		}),
	}

	cmd.Flags().StringVar(&id, "id", "", "document id")
	cmd.Flags().IntVar(&zoom, "zoom", 0, "zoom steps for images, negative to zoom out")

	return cmd
}

func docsDownloadCmd(a *app) *cobra.Command {
	var id, dir string

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Save a document to a local directory",
		Args:  cobra.NoArgs,
		RunE: signedIn(a, func(ctx context.Context) error {
			doc, err := a.docs.Get(ctx, id)
			if err != nil {
				return err
			}

			info, err := a.docs.ResolveDownload(ctx, doc)
			if err != nil {
				return err
			}

			target := filepath.Join(dir, filepath.Base(info.Filename))

			f, err := os.Create(target)
			if err != nil {
				return fmt.Errorf("create %s: %w", target, err)
			}
			defer f.Close()

			n, err := a.storage.Download(ctx, info.URL, f)
			if err != nil {
				_ = os.Remove(target)
				return err
			}

			fmt.Fprintln(a.out, notify.Success("Saved %s (%d bytes)", target, n))

			return nil
		}),
	}

	cmd.Flags().StringVar(&id, "id", "", "document id")
	cmd.Flags().StringVar(&dir, "out", ".", "target directory")

	return cmd
}
