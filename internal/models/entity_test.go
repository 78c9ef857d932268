// ABOUTME: Tests for CodeEntity and ProjectDocument construction
// ABOUTME: Verifies validation, content hashing, and initial enrichment status
package models

import "testing"

func TestNewCodeEntity(t *testing.T) {
	entity, err := NewCodeEntity("internal/app/server.go", EntityFunction, "startServer", "func startServer() {}")
	if err != nil {
		t.Fatalf("NewCodeEntity() error = %v", err)
	}

	if entity.EnrichmentStatus != EnrichmentPending {
		t.Errorf("EnrichmentStatus = %v, want pending", entity.EnrichmentStatus)
	}
	if entity.ContentHash == "" {
		t.Error("ContentHash should not be empty")
	}
	if entity.ID == "" {
		t.Error("ID should not be empty")
	}
}

func TestNewCodeEntity_Validation(t *testing.T) {
	if _, err := NewCodeEntity("", EntityFunction, "f", "x"); err == nil {
		t.Error("expected error for empty file path")
	}
	if _, err := NewCodeEntity("main.go", EntityFunction, "  ", "x"); err == nil {
		t.Error("expected error for blank name")
	}
}

func TestHashContent_Deterministic(t *testing.T) {
	a := HashContent("package main")
	b := HashContent("package main")
	if a != b {
		t.Errorf("HashContent not deterministic: %q != %q", a, b)
	}

	c := HashContent("package other")
	if a == c {
		t.Error("different content should hash differently")
	}
}

func TestNewProjectDocument(t *testing.T) {
	doc, err := NewProjectDocument("README.md", "Readme", "# Project")
	if err != nil {
		t.Fatalf("NewProjectDocument() error = %v", err)
	}
	if doc.EnrichmentStatus != EnrichmentPending {
		t.Errorf("EnrichmentStatus = %v, want pending", doc.EnrichmentStatus)
	}

	if _, err := NewProjectDocument("", "t", "c"); err == nil {
		t.Error("expected error for empty file path")
	}
}

func TestNewConversationMessage(t *testing.T) {
	msg, err := NewConversationMessage("conv_1", RoleUser, "how does retrieval work?")
	if err != nil {
		t.Fatalf("NewConversationMessage() error = %v", err)
	}
	if msg.ConversationID != "conv_1" {
		t.Errorf("ConversationID = %q, want conv_1", msg.ConversationID)
	}

	if _, err := NewConversationMessage("", RoleUser, "x"); err == nil {
		t.Error("expected error for empty conversation id")
	}
	if _, err := NewConversationMessage("conv_1", RoleUser, "  "); err == nil {
		t.Error("expected error for blank content")
	}
}
