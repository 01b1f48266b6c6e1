package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/beeja-io/beeja-console/internal/api"
	"github.com/beeja-io/beeja-console/internal/inventory"
)

var deviceCategories = []string{"Desktop", "Laptop", "Mobile", "Tablet", "Monitor", "Printer", "Accessories"}

type inventoryFormMode int

const (
	formAdd inventoryFormMode = iota
	formEdit
)

type inventoryModel struct {
	client *api.Client
	width  int
	height int

	devices []inventory.Device
	cursor  int

	menu    actionMenu
	loading bool
	spin    spinner.Model

	formActive bool
	formMode   inventoryFormMode
	form       *huh.Form
	session    string
	editing    inventory.Device // original record under edit

	// Form field pointers (survive value copies)
	fCategory  *string
	fType      *string
	fSpecs     *string
	fAvail     *string
	fPrice     *string
	fProvider  *string
	fModel     *string
	fOS        *string
	fRAM       *string
	fDate      *string
	fProductID *string
	fAccessory *string
	fComments  *string

	lastCategory string
}

func newInventoryModel(client *api.Client, canEdit, canDelete bool) inventoryModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	var cat, typ, specs, avail, price, provider, model string
	var os, ram, date, productID, accessory, comments string
	return inventoryModel{
		client:     client,
		menu:       newActionMenu(canEdit, canDelete),
		spin:       sp,
		fCategory:  &cat,
		fType:      &typ,
		fSpecs:     &specs,
		fAvail:     &avail,
		fPrice:     &price,
		fProvider:  &provider,
		fModel:     &model,
		fOS:        &os,
		fRAM:       &ram,
		fDate:      &date,
		fProductID: &productID,
		fAccessory: &accessory,
		fComments:  &comments,
	}
}

func (m *inventoryModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m inventoryModel) refresh() tea.Cmd {
	return func() tea.Msg {
		devices, err := m.client.ListDevices(context.Background())
		return devicesDataMsg{devices: devices, err: err}
	}
}

func (m inventoryModel) update(msg tea.Msg) (inventoryModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case devicesDataMsg:
		if msg.err != nil {
			return m, statusCmd("Could not load devices: "+msg.err.Error(), true)
		}
		m.devices = msg.devices
		if m.cursor >= len(m.devices) {
			m.cursor = max(0, len(m.devices)-1)
		}
		return m, nil

	case deviceSavedMsg:
		m.loading = false
		if msg.err != nil {
			return m, statusCmd(saveErrorText(msg.err), true)
		}
		text := "Device updated"
		if msg.created {
			text = "Device added"
		}
		return m, tea.Batch(statusCmd(text, false), m.refresh())

	case deviceDeletedMsg:
		m.loading = false
		if msg.err != nil {
			// Delete failures are surfaced, not just spun down.
			return m, statusCmd("Could not delete device: "+msg.err.Error(), true)
		}
		return m, tea.Batch(statusCmd("Device deleted", false), m.refresh())

	case editSessionRevokedMsg:
		if msg.session == m.session {
			m.closeForm()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.updateList(msg)
	}
	return m, nil
}

func (m inventoryModel) updateList(msg tea.KeyMsg) (inventoryModel, tea.Cmd) {
	// An open menu captures navigation; anything else counts as an
	// interaction outside the menu and closes it.
	if m.menu.IsOpen() {
		switch {
		case key.Matches(msg, keys.Up):
			m.menu.MoveUp()
			return m, nil
		case key.Matches(msg, keys.Down):
			m.menu.MoveDown()
			return m, nil
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Confirm) && m.menu.Confirming():
			switch m.menu.Select() {
			case menuActionEdit:
				return m.showEditForm()
			case menuActionDelete:
				return m.deleteSelected()
			}
			return m, nil
		case key.Matches(msg, keys.Back):
			m.menu.Dismiss()
			return m, nil
		default:
			m.menu.Dismiss()
		}
	}

	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.devices)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(m.devices) > 0 && m.menu.Enabled() {
			m.menu.Toggle()
		}
	case key.Matches(msg, keys.New):
		return m.showAddForm()
	case key.Matches(msg, keys.Edit):
		if len(m.devices) > 0 && m.menu.canEdit {
			return m.showEditForm()
		}
	case key.Matches(msg, keys.Delete):
		if len(m.devices) > 0 {
			m.menu.RequestDelete()
		}
	}
	return m, nil
}

func (m inventoryModel) deleteSelected() (inventoryModel, tea.Cmd) {
	if m.cursor >= len(m.devices) || m.loading {
		return m, nil
	}
	id := m.devices[m.cursor].ID
	m.loading = true
	client := m.client
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		err := client.DeleteDevice(context.Background(), id)
		return deviceDeletedMsg{id: id, err: err}
	})
}

func (m inventoryModel) showAddForm() (inventoryModel, tea.Cmd) {
	*m.fCategory = deviceCategories[0]
	*m.fType = "New"
	*m.fSpecs = ""
	*m.fAvail = "Yes"
	*m.fPrice = ""
	*m.fProvider = ""
	*m.fModel = ""
	*m.fOS = ""
	*m.fRAM = ""
	*m.fDate = ""
	*m.fProductID = ""
	*m.fAccessory = ""
	*m.fComments = ""
	m.lastCategory = *m.fCategory
	m.formMode = formAdd
	return m.openForm()
}

func (m inventoryModel) showEditForm() (inventoryModel, tea.Cmd) {
	if m.cursor >= len(m.devices) {
		return m, nil
	}
	m.editing = m.devices[m.cursor]
	d := inventory.DraftFromDevice(m.editing)
	*m.fCategory = d.Category
	*m.fType = d.Type
	*m.fSpecs = d.Specifications
	*m.fAvail = d.Availability
	*m.fPrice = d.Price
	*m.fProvider = d.Provider
	*m.fModel = d.Model
	*m.fOS = d.OS
	*m.fRAM = d.RAM
	*m.fDate = d.DateOfPurchase
	*m.fProductID = d.ProductID
	*m.fAccessory = d.AccessoryType
	*m.fComments = d.Comments
	m.lastCategory = *m.fCategory
	m.formMode = formEdit
	return m.openForm()
}

func (m inventoryModel) openForm() (inventoryModel, tea.Cmd) {
	m.form = m.buildForm()
	m.formActive = true
	m.session = uuid.NewString()
	session := m.session
	return m, tea.Batch(m.form.Init(), func() tea.Msg {
		return claimEditSessionMsg{session: session}
	})
}

func (m inventoryModel) buildForm() *huh.Form {
	catOptions := make([]huh.Option[string], 0, len(deviceCategories))
	for _, c := range deviceCategories {
		catOptions = append(catOptions, huh.NewOption(c, c))
	}
	// Edited records come back upper-cased from the backend.
	for _, c := range deviceCategories {
		u := strings.ToUpper(c)
		if *m.fCategory == u {
			catOptions = append(catOptions, huh.NewOption(c, u))
		}
	}

	typeOptions := []huh.Option[string]{
		huh.NewOption("New", "New"),
		huh.NewOption("Old", "Old"),
	}
	switch *m.fType {
	case "NEW":
		typeOptions = append(typeOptions, huh.NewOption("New", "NEW"))
	case "OLD":
		typeOptions = append(typeOptions, huh.NewOption("Old", "OLD"))
	}

	availOptions := []huh.Option[string]{
		huh.NewOption("Yes", "Yes"),
		huh.NewOption("No", "No"),
	}
	switch *m.fAvail {
	case "YES":
		availOptions = append(availOptions, huh.NewOption("Yes", "YES"))
	case "NO":
		availOptions = append(availOptions, huh.NewOption("No", "NO"))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Device").Options(catOptions...).Value(m.fCategory),
			huh.NewSelect[string]().Title("Type").Options(typeOptions...).Value(m.fType),
			huh.NewInput().Title("Provider").Value(m.fProvider),
			huh.NewInput().Title("Model").Value(m.fModel),
			huh.NewInput().Title("Specifications").Value(m.fSpecs),
		),
		huh.NewGroup(
			huh.NewInput().Title("OS").Description("Required for desktop/laptop/mobile/tablet").Value(m.fOS),
			huh.NewInput().Title("RAM").Description("Required for desktop/laptop/mobile/tablet").Value(m.fRAM),
			huh.NewInput().Title("Accessory Type").Description("Required for accessories").Value(m.fAccessory),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Availability").Options(availOptions...).Value(m.fAvail),
			huh.NewInput().Title("Price").Value(m.fPrice),
			huh.NewInput().Title("Date of Purchase").Placeholder("2006-01-02").Value(m.fDate),
			huh.NewInput().Title("Product ID").Placeholder("8-20 chars, letters/digits/hyphens").Value(m.fProductID),
			huh.NewInput().Title("Comments").Value(m.fComments),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

func (m inventoryModel) updateForm(msg tea.Msg) (inventoryModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			session := m.session
			m.closeForm()
			return m, func() tea.Msg { return releaseEditSessionMsg{session: session} }
		}
	}
	if msg, ok := msg.(editSessionRevokedMsg); ok {
		if msg.session == m.session {
			m.closeForm()
		}
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	// Switching the category away from an OS/RAM-bearing (or accessory)
	// value drops the now-meaningless field values immediately.
	if *m.fCategory != m.lastCategory {
		if !inventory.IsOSRAMBearing(*m.fCategory) {
			*m.fOS = ""
			*m.fRAM = ""
		}
		if !inventory.IsAccessory(*m.fCategory) {
			*m.fAccessory = ""
		}
		m.lastCategory = *m.fCategory
	}

	if m.form.State == huh.StateCompleted {
		return m.submitForm()
	}

	return m, cmd
}

func (m inventoryModel) submitForm() (inventoryModel, tea.Cmd) {
	if m.loading {
		return m, nil
	}

	draft := m.draftFromForm()

	if m.formMode == formAdd {
		if err := draft.Validate(); err != nil {
			return m.reopenForm(err)
		}
		if _, err := inventory.ParsePrice(draft.Price); err != nil {
			return m.reopenForm(err)
		}

		session := m.session
		m.closeForm()
		m.loading = true
		fields := draft.Normalized().FormFields()
		client := m.client
		return m, tea.Batch(
			m.spin.Tick,
			func() tea.Msg { return releaseEditSessionMsg{session: session} },
			func() tea.Msg {
				device, err := client.CreateDevice(context.Background(), fields)
				return deviceSavedMsg{device: device, created: true, err: err}
			},
		)
	}

	cs := m.changeSet(draft)
	merged := cs.Apply(m.editing)
	if err := merged.Validate(); err != nil {
		return m.reopenForm(err)
	}
	if _, err := inventory.ParsePrice(merged.Price); err != nil {
		return m.reopenForm(err)
	}
	if cs.Empty() {
		session := m.session
		m.closeForm()
		return m, tea.Batch(
			func() tea.Msg { return releaseEditSessionMsg{session: session} },
			statusCmd("No changes to save", false),
		)
	}

	session := m.session
	id := m.editing.ID
	payload := cs.Payload()
	m.closeForm()
	m.loading = true
	client := m.client
	return m, tea.Batch(
		m.spin.Tick,
		func() tea.Msg { return releaseEditSessionMsg{session: session} },
		func() tea.Msg {
			device, err := client.UpdateDevice(context.Background(), id, payload)
			return deviceSavedMsg{device: device, created: false, err: err}
		},
	)
}

// changeSet diffs the form values against the original record, upper-casing
// the enum-like fields the way the backend stores them.
func (m inventoryModel) changeSet(draft inventory.Draft) *inventory.ChangeSet {
	orig := inventory.DraftFromDevice(m.editing)
	n := draft.Normalized()

	cs := inventory.NewChangeSet()
	cs.Set(inventory.FieldCategory, orig.Category, n.Category)
	cs.Set(inventory.FieldType, orig.Type, n.Type)
	cs.Set(inventory.FieldSpecifications, orig.Specifications, draft.Specifications)
	cs.Set(inventory.FieldAvailability, orig.Availability, n.Availability)
	cs.Set(inventory.FieldPrice, orig.Price, draft.Price)
	cs.Set(inventory.FieldProvider, orig.Provider, draft.Provider)
	cs.Set(inventory.FieldModel, orig.Model, draft.Model)
	cs.Set(inventory.FieldOS, orig.OS, draft.OS)
	cs.Set(inventory.FieldRAM, orig.RAM, draft.RAM)
	cs.Set(inventory.FieldDateOfPurchase, orig.DateOfPurchase, draft.DateOfPurchase)
	cs.Set(inventory.FieldProductID, orig.ProductID, draft.ProductID)
	cs.Set(inventory.FieldAccessoryType, orig.AccessoryType, n.AccessoryType)
	cs.Set(inventory.FieldComments, orig.Comments, draft.Comments)
	return cs
}

func (m inventoryModel) draftFromForm() inventory.Draft {
	return inventory.Draft{
		Category:       *m.fCategory,
		Type:           *m.fType,
		Specifications: *m.fSpecs,
		Availability:   *m.fAvail,
		Price:          *m.fPrice,
		Provider:       *m.fProvider,
		Model:          *m.fModel,
		OS:             *m.fOS,
		RAM:            *m.fRAM,
		DateOfPurchase: *m.fDate,
		ProductID:      *m.fProductID,
		AccessoryType:  *m.fAccessory,
		Comments:       *m.fComments,
	}
}

// reopenForm blocks the submission, surfaces the validation error, and
// reopens the form with the entered values intact.
func (m inventoryModel) reopenForm(err error) (inventoryModel, tea.Cmd) {
	m.form = m.buildForm()
	m.formActive = true
	return m, tea.Batch(m.form.Init(), statusCmd(err.Error(), true))
}

func (m *inventoryModel) closeForm() {
	m.formActive = false
	m.form = nil
	m.session = ""
}

func saveErrorText(err error) string {
	switch {
	case errors.Is(err, api.ErrPriceNotPositive):
		return "Price must be greater than 0"
	case errors.Is(err, api.ErrDuplicateProductID):
		return "A device with this product ID already exists"
	default:
		return "Could not save device. Please try again."
	}
}

func (m inventoryModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Add Device")
		if m.formMode == formEdit {
			title = titleStyle.Render("Edit Device")
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	title := titleStyle.Render("Device Inventory")
	if m.loading {
		title += "  " + m.spin.View()
	}

	if len(m.devices) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No devices. Press n to add one."),
		))
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-14s %-18s %-14s %10s %-6s %-14s",
		"Device", "Model", "Provider", "Price", "Avail", "Product ID")))

	for i, d := range m.devices {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
			if !m.menu.Enabled() {
				style = disabledItemStyle
			}
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-14s %-18s %-14s %10.2f %-6s %-14s",
			cursor, d.Category, d.Model, d.Provider, d.Price, d.Availability, d.ProductID)))
		if i == m.cursor && m.menu.IsOpen() {
			rows = append(rows, m.menu.view())
		}
	}

	rows = append(rows, "")
	hint := "  n: add  enter: actions  x: export"
	if !m.menu.Enabled() {
		hint = "  n: add  x: export  (no edit/delete permission)"
	}
	rows = append(rows, mutedStyle.Render(hint))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
