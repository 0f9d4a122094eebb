package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fieldsync/internal/client/connectivity"
	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/client/syncer"
	"github.com/dmitrijs2005/fieldsync/internal/common"
)

// SetMode shows the mode for an empty arg, pins and saves an explicit mode,
// or returns control to the connectivity watcher for "auto".
func (a *App) SetMode(ctx context.Context, arg string) error {
	switch strings.ToLower(arg) {
	case "":
		fmt.Fprintln(a.out, "mode:", a.getStatus())
		return nil
	case "auto":
		a.sw.Unpin()
		if err := a.pref.Clear(ctx); err != nil && !errors.Is(err, common.ErrorNotFound) {
			a.log.Error(ctx, "clear mode preference failed", "err", err)
			fmt.Fprintln(a.out, "error:", err)
			return err
		}
		fmt.Fprintln(a.out, "mode follows the connectivity probe")
		return nil
	}

	mode, err := connectivity.ParseMode(arg)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return err
	}
	a.sw.Pin(ctx, mode)
	if err := a.pref.Save(ctx, mode); err != nil {
		a.log.Error(ctx, "save mode preference failed", "err", err)
		fmt.Fprintln(a.out, "error:", err)
		return err
	}
	fmt.Fprintln(a.out, "mode pinned to", mode)
	return nil
}

func (a *App) fail(ctx context.Context, op string, err error) error {
	a.log.Error(ctx, op+" failed", "err", err)
	fmt.Fprintln(a.out, "error:", err)
	return err
}

func (a *App) ListClients(ctx context.Context, offset int) error {
	page, err := a.clients.List(ctx, true, offset, a.cfg.PageSize)
	if err != nil {
		return a.fail(ctx, "list clients", err)
	}
	if page.IsEmpty() {
		fmt.Fprintln(a.out, "No clients.")
		return nil
	}
	for _, c := range page.PageItems {
		fmt.Fprintf(a.out, "%d\t%s\t%s\n", c.ID, c.DisplayName, c.OfficeName)
	}
	fmt.Fprintf(a.out, "%d of %d\n", len(page.PageItems), page.TotalFilteredRecords)
	return nil
}

func (a *App) ShowClient(ctx context.Context, id int64) error {
	c, err := a.clients.Get(ctx, id)
	if err != nil {
		return a.fail(ctx, "show client", err)
	}
	fmt.Fprintf(a.out, "id: %d\nname: %s\naccount: %s\noffice: %d %s\nmobile: %s\nactive: %t\n",
		c.ID, c.DisplayName, c.AccountNo, c.OfficeID, c.OfficeName, c.MobileNo, c.Active)
	return nil
}

func (a *App) ShowClientAccounts(ctx context.Context, id int64) error {
	acc, err := a.clients.Accounts(ctx, id)
	if err != nil {
		return a.fail(ctx, "client accounts", err)
	}
	for _, l := range acc.LoanAccounts {
		fmt.Fprintf(a.out, "loan\t%s\t%s\t%.2f\n", l.AccountNo, l.ProductName, l.LoanBalance)
	}
	for _, s := range acc.SavingsAccounts {
		fmt.Fprintf(a.out, "savings\t%s\t%s\t%.2f\n", s.AccountNo, s.ProductName, s.AccountBalance)
	}
	if len(acc.LoanAccounts)+len(acc.SavingsAccounts) == 0 {
		fmt.Fprintln(a.out, "No accounts.")
	}
	return nil
}

func (a *App) ListCenters(ctx context.Context, offset int) error {
	page, err := a.centers.List(ctx, true, offset, a.cfg.PageSize)
	if err != nil {
		return a.fail(ctx, "list centers", err)
	}
	if page.IsEmpty() {
		fmt.Fprintln(a.out, "No centers.")
		return nil
	}
	for _, c := range page.PageItems {
		fmt.Fprintf(a.out, "%d\t%s\t%s\n", c.ID, c.Name, c.OfficeName)
	}
	return nil
}

func (a *App) ShowCenter(ctx context.Context, id int64) error {
	c, err := a.centers.WithAssociations(ctx, id)
	if err != nil {
		return a.fail(ctx, "show center", err)
	}
	fmt.Fprintf(a.out, "id: %d\nname: %s\noffice: %d\nactive: %t\n", c.ID, c.Name, c.OfficeID, c.Active)
	for _, g := range c.GroupMembers {
		fmt.Fprintf(a.out, "  group %d\t%s\n", g.ID, g.Name)
	}
	return nil
}

func (a *App) ListOffices(ctx context.Context) error {
	offices, err := a.offices.List(ctx)
	if err != nil {
		return a.fail(ctx, "list offices", err)
	}
	if len(offices) == 0 {
		fmt.Fprintln(a.out, "No offices.")
	}
	for _, o := range offices {
		fmt.Fprintf(a.out, "%d\t%s\n", o.ID, o.Name)
	}
	return nil
}

func (a *App) ListSurveys(ctx context.Context) error {
	surveys, err := a.surveys.List(ctx)
	if err != nil {
		return a.fail(ctx, "list surveys", err)
	}
	if len(surveys) == 0 {
		fmt.Fprintln(a.out, "No surveys.")
	}
	for _, s := range surveys {
		fmt.Fprintf(a.out, "%d\t%s\t%d questions\n", s.ID, s.Name, len(s.QuestionDatas))
	}
	return nil
}

// ListPending prints every queued creation, oldest first per type.
func (a *App) ListPending(ctx context.Context) error {
	clients, err := a.clients.PendingPayloads(ctx)
	if err != nil {
		return a.fail(ctx, "list pending clients", err)
	}
	centers, err := a.centers.PendingPayloads(ctx)
	if err != nil {
		return a.fail(ctx, "list pending centers", err)
	}
	if len(clients)+len(centers) == 0 {
		fmt.Fprintln(a.out, "Nothing pending.")
	}
	for _, r := range clients {
		fmt.Fprintf(a.out, "client\t%d\t%s %s\t%s\n", r.LocalID, r.Payload.Firstname, r.Payload.Lastname, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	for _, r := range centers {
		fmt.Fprintf(a.out, "center\t%d\t%s\t%s\n", r.LocalID, r.Payload.Name, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	for _, t := range a.coord.EntityTypes() {
		at, ok, err := a.journal.LastSync(ctx, t)
		if err != nil {
			return a.fail(ctx, "read last sync", err)
		}
		if ok {
			fmt.Fprintf(a.out, "%s last synced %s\n", t, at.Local().Format("2006-01-02 15:04"))
		}
	}
	return nil
}

func findPending[P any](recs []models.PendingRecord[P], localID int64) (P, bool) {
	for _, r := range recs {
		if r.LocalID == localID {
			return r.Payload, true
		}
	}
	var zero P
	return zero, false
}

// EditPending re-prompts for a queued creation, keeping its local id.
func (a *App) EditPending(ctx context.Context, t models.EntityType, localID int64) error {
	var err error
	switch t {
	case models.EntityClient:
		err = editPending(ctx, a, localID, a.clients.PendingPayloads, a.addClientDetails, a.clients.UpdatePending)
	case models.EntityCenter:
		err = editPending(ctx, a, localID, a.centers.PendingPayloads, a.addCenterDetails, a.centers.UpdatePending)
	default:
		err = fmt.Errorf("%w: %s has no pending queue", common.ErrorUnknownEntity, t)
	}
	if err != nil {
		return a.fail(ctx, "edit pending", err)
	}
	fmt.Fprintf(a.out, "pending %s %d updated\n", t, localID)
	return nil
}

func editPending[P any](
	ctx context.Context,
	a *App,
	localID int64,
	list func(context.Context) ([]models.PendingRecord[P], error),
	details func(context.Context, P) (P, error),
	update func(context.Context, int64, P) (models.PendingRecord[P], error),
) error {
	recs, err := list(ctx)
	if err != nil {
		return err
	}
	cur, ok := findPending(recs, localID)
	if !ok {
		return fmt.Errorf("%w: pending record %d", common.ErrorNotFound, localID)
	}
	p, err := details(ctx, cur)
	if err != nil {
		return err
	}
	_, err = update(ctx, localID, p)
	return err
}

// DropPending discards a queued creation without sending it.
func (a *App) DropPending(ctx context.Context, t models.EntityType, localID int64) error {
	var (
		left int
		err  error
	)
	switch t {
	case models.EntityClient:
		var recs []models.PendingRecord[models.ClientPayload]
		recs, err = a.clients.DeleteAndReloadPending(ctx, localID)
		left = len(recs)
	case models.EntityCenter:
		var recs []models.PendingRecord[models.CenterPayload]
		recs, err = a.centers.DeleteAndReloadPending(ctx, localID)
		left = len(recs)
	default:
		err = fmt.Errorf("%w: %s has no pending queue", common.ErrorUnknownEntity, t)
	}
	if err != nil {
		return a.fail(ctx, "drop pending", err)
	}
	fmt.Fprintf(a.out, "pending %s %d dropped, %d left\n", t, localID, left)
	return nil
}

// Sync replays the queue of one entity type, or of all types for "all".
func (a *App) Sync(ctx context.Context, target string) error {
	var (
		reports []syncer.Report
		err     error
	)
	if target == "" || target == "all" {
		reports, err = a.coord.SyncAll(ctx)
	} else {
		t, perr := models.ParseEntityType(target)
		if perr != nil {
			return a.fail(ctx, "sync", perr)
		}
		var r syncer.Report
		r, err = a.coord.Sync(ctx, t)
		reports = []syncer.Report{r}
	}

	for _, r := range reports {
		if r.EntityType == "" {
			continue
		}
		fmt.Fprintf(a.out, "%s: replayed %d, %d remaining\n", r.EntityType, r.Replayed, len(r.Remaining))
	}

	if errors.Is(err, syncer.ErrNotOnline) {
		fmt.Fprintln(a.out, "sync needs online mode; pending records are kept")
		return err
	}
	if err != nil {
		return a.fail(ctx, "sync", err)
	}
	return nil
}
