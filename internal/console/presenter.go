package console

import "github.com/vrom/vrom/internal/markers"

// Presenter is notified of every state change the operator should see. The
// controller never reads back from it.
type Presenter interface {
	SetVisibility(g Group, v Visibility)
	SetSettingsFields(ip, port string)
	SetMarkerFields(fields [markers.FieldCount]string)
	SetApplyEnabled(f Form, enabled bool)
	SetWarning(f Form, visible bool)
	SetDebugText(text string)
	SetStatus(text string, isErr bool)
	Quit()
}

type nopPresenter struct{}

func (nopPresenter) SetVisibility(Group, Visibility) {}
func (nopPresenter) SetSettingsFields(string, string) {}
func (nopPresenter) SetMarkerFields([markers.FieldCount]string) {}
func (nopPresenter) SetApplyEnabled(Form, bool) {}
func (nopPresenter) SetWarning(Form, bool) {}
func (nopPresenter) SetDebugText(string) {}
func (nopPresenter) SetStatus(string, bool) {}
func (nopPresenter) Quit() {}
