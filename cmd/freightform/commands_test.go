package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muurk/freightform/internal/config"
	"github.com/muurk/freightform/internal/leadform"
	"github.com/muurk/freightform/internal/refdata"
	"github.com/muurk/freightform/internal/submit"
)

func writeLead(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lead.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write lead file: %v", err)
	}
	return path
}

func TestReadLeadKeepsLoadDefaults(t *testing.T) {
	path := writeLead(t, `
country: FR
destLocationType: port
destPort: FRLEH
loads:
  - shippingType: container
    container:
      containerType: "40'HC"
  - shippingType: loose
    loose:
      packageType: pallets
      weightPerUnit: "120"
`)

	data, err := readLead(path, "CN")
	if err != nil {
		t.Fatalf("readLead() error = %v", err)
	}
	if data.Country != "FR" || data.DestPort != "FRLEH" {
		t.Errorf("destination = %q/%q, want FR/FRLEH", data.Country, data.DestPort)
	}
	if data.OriginCountry != "CN" {
		t.Errorf("OriginCountry = %q, want CN", data.OriginCountry)
	}
	if len(data.Loads) != 2 {
		t.Fatalf("len(Loads) = %d, want 2", len(data.Loads))
	}

	defaults := leadform.NewLoad()
	first := data.Loads[0]
	if first.Container.ContainerType != leadform.Container40HC {
		t.Errorf("ContainerType = %q, want %q", first.Container.ContainerType, leadform.Container40HC)
	}
	if first.Container.NumberOfUnits != defaults.Container.NumberOfUnits {
		t.Errorf("container NumberOfUnits = %q, want default %q", first.Container.NumberOfUnits, defaults.Container.NumberOfUnits)
	}

	second := data.Loads[1]
	if second.Loose.WeightPerUnit != "120" {
		t.Errorf("WeightPerUnit = %q, want 120", second.Loose.WeightPerUnit)
	}
	if second.Loose.WeightUnit != defaults.Loose.WeightUnit || second.Loose.CalculationType != defaults.Loose.CalculationType {
		t.Errorf("loose defaults lost: %+v", second.Loose)
	}
}

func TestReadLeadWithoutLoads(t *testing.T) {
	path := writeLead(t, "country: DE\n")

	data, err := readLead(path, "VN")
	if err != nil {
		t.Fatalf("readLead() error = %v", err)
	}
	if len(data.Loads) != 1 {
		t.Fatalf("len(Loads) = %d, want one default line", len(data.Loads))
	}
	if data.Loads[0] != leadform.NewLoad() {
		t.Errorf("Loads[0] = %+v, want the default line", data.Loads[0])
	}
}

func TestReadLeadErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "none.yaml") }},
		{"malformed yaml", func(t *testing.T) string { return writeLead(t, "country: [FR\n") }},
		{"malformed cargo line", func(t *testing.T) string { return writeLead(t, "loads:\n  - loose: 12\n") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := readLead(tt.path(t), "CN"); err == nil {
				t.Error("readLead() should fail")
			}
		})
	}
}

func TestNewTransport(t *testing.T) {
	t.Run("dry without webhook", func(t *testing.T) {
		transport, dry, err := newTransport(config.NewSettings())
		if err != nil {
			t.Fatalf("newTransport() error = %v", err)
		}
		if !dry {
			t.Error("newTransport() should report a dry transport")
		}
		if _, ok := transport.(*submit.Dry); !ok {
			t.Errorf("transport = %T, want *submit.Dry", transport)
		}
	})

	t.Run("client with webhook", func(t *testing.T) {
		settings := config.NewSettings()
		settings.Webhook.URL = "https://hooks.example.com/quote"
		settings.Webhook.Headers = map[string]string{"Authorization": "Bearer token"}

		transport, dry, err := newTransport(settings)
		if err != nil {
			t.Fatalf("newTransport() error = %v", err)
		}
		if dry {
			t.Error("newTransport() should not be dry with a webhook")
		}
		client, ok := transport.(*submit.Client)
		if !ok {
			t.Fatalf("transport = %T, want *submit.Client", transport)
		}
		if client.Headers["Authorization"] != "Bearer token" {
			t.Errorf("Headers = %v", client.Headers)
		}
	})

	t.Run("invalid webhook", func(t *testing.T) {
		settings := config.NewSettings()
		settings.Webhook.URL = "ftp://hooks.example.com"
		if _, _, err := newTransport(settings); err == nil {
			t.Error("newTransport() should reject a non-http URL")
		}
	})
}

func TestNewSequencerUsesSettings(t *testing.T) {
	settings := config.NewSettings()
	settings.OriginCountry = "VN"
	settings.Language = "fr"
	settings.Source = "kiosk"

	seq := newSequencer(settings, refdata.MustLoad())
	if got := seq.Store().Snapshot().OriginCountry; got != "VN" {
		t.Errorf("OriginCountry = %q, want VN", got)
	}
	if got := seq.Store().Language(); got != "fr" {
		t.Errorf("Language() = %q, want fr", got)
	}
	if seq.Source == "" {
		t.Error("Source should be stamped")
	}
}

func TestHintTips(t *testing.T) {
	tips := hintTips(submit.NewNetworkError("dial failed", nil))
	if len(tips) == 0 {
		t.Fatal("hintTips() should return tips for a network error")
	}
	for _, tip := range tips {
		if tip == "Troubleshooting:" || strings.HasPrefix(tip, "•") {
			t.Errorf("tip %q should be a bare line", tip)
		}
	}

	if tips := hintTips(submit.NewConfigError("no webhook URL configured")); len(tips) != 1 {
		t.Errorf("hintTips(config) = %q, want one tip", tips)
	}
}
