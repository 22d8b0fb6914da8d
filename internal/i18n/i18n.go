// Package i18n resolves display strings for a language code and key. Lookup
// never fails: a missing language or key falls back to the key itself. The
// table here covers the keys the core references; full translation content
// is maintained elsewhere.
package i18n

// T returns the display string for the key in the given language, or the
// key itself when no translation exists.
func T(language, key string) string {
	table, ok := translations[language]
	if !ok {
		return key
	}
	value, ok := table[key]
	if !ok {
		return key
	}
	return value
}

// Languages returns the language codes with a translation table, in a
// stable order.
func Languages() []string {
	return []string{"en", "es", "ca"}
}

var translations = map[string]map[string]string{
	"en": {
		"dashboard":      "Dashboard",
		"createTicket":   "Create Ticket",
		"myTickets":      "My Tickets",
		"manageTickets":  "Manage Tickets",
		"accounting":     "Accounting",
		"users":          "Users",
		"roles":          "Roles",
		"settings":       "Settings",
		"logout":         "Logout",
		"pendingPayment": "Pending Payment",
		"totalTickets":   "Total Tickets",
		"paidPercentage": "Paid",
		"recentTickets":  "Recent Tickets",
		"meal":           "Meal",
		"parking":        "Parking",
		"fuel":           "Fuel",
		"pending":        "Pending",
		"validated":      "Validated",
		"paid":           "Paid",
		"rejected":       "Rejected",
		"validate":       "Validate",
		"reject":         "Reject",
		"pay":            "Pay",
	},
	"es": {
		"dashboard":      "Panel",
		"createTicket":   "Crear Ticket",
		"myTickets":      "Mis Tickets",
		"manageTickets":  "Gestionar Tickets",
		"accounting":     "Contabilidad",
		"users":          "Usuarios",
		"roles":          "Roles",
		"settings":       "Configuración",
		"logout":         "Cerrar Sesión",
		"pendingPayment": "Pendiente de Pago",
		"totalTickets":   "Total Tickets",
		"paidPercentage": "Pagado",
		"recentTickets":  "Tickets Recientes",
		"meal":           "Dieta",
		"parking":        "Parking",
		"fuel":           "Gasolina",
		"pending":        "Pendiente",
		"validated":      "Validado",
		"paid":           "Pagado",
		"rejected":       "Rechazado",
		"validate":       "Validar",
		"reject":         "Rechazar",
		"pay":            "Pagar",
	},
	"ca": {
		"dashboard":      "Panell",
		"createTicket":   "Crear Tiquet",
		"myTickets":      "Els Meus Tiquets",
		"manageTickets":  "Gestionar Tiquets",
		"accounting":     "Comptabilitat",
		"users":          "Usuaris",
		"roles":          "Rols",
		"settings":       "Configuració",
		"logout":         "Tancar Sessió",
		"pendingPayment": "Pendent de Pagament",
		"totalTickets":   "Total Tiquets",
		"paidPercentage": "Pagat",
		"recentTickets":  "Tiquets Recents",
		"meal":           "Dieta",
		"parking":        "Pàrquing",
		"fuel":           "Gasolina",
		"pending":        "Pendent",
		"validated":      "Validat",
		"paid":           "Pagat",
		"rejected":       "Rebutjat",
		"validate":       "Validar",
		"reject":         "Rebutjar",
		"pay":            "Pagar",
	},
}
