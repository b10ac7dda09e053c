package lexicon

import "github.com/it-era/intake/internal/model"

// Default returns the built-in Italian IT-assistance lexicon.
// All phrases are lowercase; the classifier lowercases input before matching.
func Default() *Lexicon {
	return &Lexicon{
		Entries: []Entry{
			{
				Name:     "emergency_keywords",
				Category: CategoryEmergency,
				Weight:   40,
				Phrases: []string{
					// Server / infrastructure
					"server down", "server offline", "server crash", "server bloccato", "server non funziona",
					"sito down", "sito offline", "sito non funziona", "sito bloccato", "sistema down",
					"database down", "database offline", "database corrotto", "rete down", "connessione down",
					// Ransomware / security
					"ransomware", "virus", "malware", "cyber attack", "attacco informatico", "hackerato",
					"hack", "hacker", "violazione dati", "data breach", "sicurezza compromessa",
					"file criptati", "richiesta riscatto", "riscatto bitcoin", "cryptolocker",
					// Business critical
					"emergenza", "urgente", "critico", "bloccati", "fermi", "non possiamo lavorare",
					"perdendo soldi", "perdita economica", "disastro", "panico", "help urgente",
					"tutto fermo", "sistema bloccato", "non riusciamo", "impossibile lavorare",
					// Data loss
					"perso dati", "dati cancellati", "hard disk rotto", "backup non funziona",
					"recupero dati urgente", "file spariti", "database cancellato", "disco rotto",
					// Time-sensitive
					"ogni ora", "ogni minuto", "subito", "ora", "adesso", "immediato",
					"non può aspettare", "tempo limitato", "scadenza", "cliente arrabbiato",
				},
			},
			{
				Name:     "business_impact",
				Category: CategoryBusinessImpact,
				Weight:   30,
				Phrases: []string{
					"perdendo soldi", "perdita economica", "clienti arrabbiati", "lavoro fermo",
					"produzione ferma", "vendite bloccate", "fatturato a rischio", "business fermo",
					"dipendenti bloccati", "ordini fermi", "magazzino fermo", "spedizioni ferme",
				},
			},
			{
				Name:     "urgency_modifiers",
				Category: CategoryUrgency,
				Weight:   20,
				Generic:  true,
				Phrases:  []string{"urgente", "subito", "emergenza", "critico"},
			},
		},
		CoRules: []CoRule{
			{Name: "down_offline", Any: []string{"down", "offline"}, Weight: 25},
			{Name: "ransomware_virus", Any: []string{"ransomware", "virus"}, Weight: 50},
			{Name: "hacked", Any: []string{"hackerato", "hack"}, Weight: 45},
			{Name: "losing_money", All: []string{"perdendo"}, Any: []string{"soldi", "denaro"}, Weight: 35},
			{Name: "everything_stopped", All: []string{"tutto", "fermo"}, Weight: 30},
			{Name: "production_halted", All: []string{"produzione", "ferma"}, Weight: 25},
			{Name: "immediate_intervention", All: []string{"intervento", "immediato"}, Weight: 25},
			{Name: "data_lost", All: []string{"perso", "dati"}, Weight: 30},
			{Name: "database_deleted", All: []string{"database", "cancellato"}, Weight: 35},
			{Name: "urgent_recovery", All: []string{"recupero", "urgente"}, Weight: 25},
		},
		// Order is precedence: a message triggering several types resolves
		// to the first matching rule.
		TypeRules: []TypeRule{
			{Type: model.SecurityBreach, Any: []string{"ransomware", "virus", "hack"}},
			{Type: model.ServerDown, All: []string{"server"}, Any: []string{"down", "crash"}},
			{Type: model.BusinessCritical, Any: []string{"perdendo soldi", "business fermo"}},
			{Type: model.DataLoss, All: []string{"dati"}, Any: []string{"perso", "cancellati"}},
		},
		Intents: []IntentEntry{
			{Intent: model.IntentGreeting, Phrases: []string{"ciao", "buongiorno", "buonasera", "salve"}},
			{Intent: model.IntentPricing, Phrases: []string{"preventivo", "prezzo", "costo", "quanto costa"}},
			{Intent: model.IntentServiceInquiry, Phrases: []string{
				"assistenza", "servizi", "supporto", "sicurezza informatica",
				"backup", "riparazione", "offrite", "firewall", "cloud",
			}},
		},
	}
}
