package services

import "testing"

func TestModelCatalogLoads(t *testing.T) {
	s, err := NewModelService()
	if err != nil {
		t.Fatalf("NewModelService: %v", err)
	}

	all := s.ListModels()
	if len(all) == 0 {
		t.Fatal("catalog is empty")
	}
	for _, m := range all {
		if m.Key == "" || m.APIName == "" || m.ProviderID == "" {
			t.Errorf("incomplete catalog entry: %+v", m)
		}
	}
}

func TestGetModelByKey(t *testing.T) {
	s, err := NewModelService()
	if err != nil {
		t.Fatalf("NewModelService: %v", err)
	}

	m, err := s.GetModel("openai/gpt-4o")
	if err != nil {
		t.Fatalf("GetModel: %v", err)
	}
	if m.ProviderID != "openai" || m.APIName != "gpt-4o" {
		t.Errorf("unexpected model: %+v", m)
	}

	if _, err := s.GetModel("nope/unknown"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestEmptyKeyFallsBackToDefault(t *testing.T) {
	s, err := NewModelService()
	if err != nil {
		t.Fatalf("NewModelService: %v", err)
	}

	def, err := s.DefaultModel()
	if err != nil {
		t.Fatalf("DefaultModel: %v", err)
	}
	if !def.Default {
		t.Errorf("default model not flagged: %+v", def)
	}

	m, err := s.GetModel("  ")
	if err != nil {
		t.Fatalf("GetModel blank: %v", err)
	}
	if m.Key != def.Key {
		t.Errorf("blank key resolved to %s, want default %s", m.Key, def.Key)
	}
}
