package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
)

// Dates are sent in the remote's display format together with the pattern
// and locale it should parse them with.
const (
	remoteDateFormat = "dd MMMM yyyy"
	remoteDateLayout = "02 January 2006"
	remoteLocale     = "en"
)

// now is a test seam for the submission date.
var now = time.Now

func today() string {
	return now().Format(remoteDateLayout)
}

// AddClient collects a client payload and creates it. Offline the payload is
// queued and the local id is reported instead of a server id.
func (a *App) AddClient(ctx context.Context) error {
	p, err := a.addClientDetails(ctx, models.ClientPayload{OfficeID: 1})
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return err
	}
	resp, err := a.clients.Create(ctx, p)
	if err != nil {
		a.log.Error(ctx, "create client failed", "err", err)
		fmt.Fprintln(a.out, "error:", err)
		return err
	}
	a.reportSaved(models.EntityClient, resp)
	return nil
}

// AddCenter collects a center payload and creates it, queueing it offline.
func (a *App) AddCenter(ctx context.Context) error {
	p, err := a.addCenterDetails(ctx, models.CenterPayload{OfficeID: 1})
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return err
	}
	resp, err := a.centers.Create(ctx, p)
	if err != nil {
		a.log.Error(ctx, "create center failed", "err", err)
		fmt.Fprintln(a.out, "error:", err)
		return err
	}
	a.reportSaved(models.EntityCenter, resp)
	return nil
}

func (a *App) reportSaved(t models.EntityType, resp models.SaveResponse) {
	if resp.Pending {
		fmt.Fprintf(a.out, "%s queued with local id %d; run 'sync' when online\n", t, resp.LocalID)
		return
	}
	fmt.Fprintf(a.out, "%s created with id %d\n", t, resp.ResourceID)
}

// addClientDetails prompts for the client fields, offering the values of cur
// as defaults, and returns the completed payload.
func (a *App) addClientDetails(ctx context.Context, cur models.ClientPayload) (models.ClientPayload, error) {
	var err error
	if cur.Firstname, err = GetDefaultText(a.reader, "Enter first name", cur.Firstname, a.out); err != nil {
		return cur, err
	}
	if cur.Lastname, err = GetDefaultText(a.reader, "Enter last name", cur.Lastname, a.out); err != nil {
		return cur, err
	}
	if cur.Firstname == "" && cur.Lastname == "" {
		return cur, fmt.Errorf("a client needs a first or last name")
	}
	if cur.MobileNo, err = GetDefaultText(a.reader, "Enter mobile number", cur.MobileNo, a.out); err != nil {
		return cur, err
	}
	if cur.OfficeID, err = GetInt(a.reader, "Enter office id", cur.OfficeID, a.out); err != nil {
		return cur, err
	}
	if cur.Active, err = GetYesNo(a.reader, "Activate now?", cur.Active, a.out); err != nil {
		return cur, err
	}

	cur.DateFormat = remoteDateFormat
	cur.Locale = remoteLocale
	if cur.SubmittedOnDate == "" {
		cur.SubmittedOnDate = today()
	}
	if cur.Active && cur.ActivationDate == "" {
		cur.ActivationDate = today()
	}
	if !cur.Active {
		cur.ActivationDate = ""
	}
	return cur, nil
}

// addCenterDetails prompts for the center fields, offering the values of cur
// as defaults.
func (a *App) addCenterDetails(ctx context.Context, cur models.CenterPayload) (models.CenterPayload, error) {
	var err error
	if cur.Name, err = GetDefaultText(a.reader, "Enter center name", cur.Name, a.out); err != nil {
		return cur, err
	}
	if cur.Name == "" {
		return cur, fmt.Errorf("a center needs a name")
	}
	if cur.OfficeID, err = GetInt(a.reader, "Enter office id", cur.OfficeID, a.out); err != nil {
		return cur, err
	}
	if cur.Active, err = GetYesNo(a.reader, "Activate now?", cur.Active, a.out); err != nil {
		return cur, err
	}

	cur.DateFormat = remoteDateFormat
	cur.Locale = remoteLocale
	if cur.SubmittedOnDate == "" {
		cur.SubmittedOnDate = today()
	}
	if cur.Active && cur.ActivationDate == "" {
		cur.ActivationDate = today()
	}
	if !cur.Active {
		cur.ActivationDate = ""
	}
	return cur, nil
}
