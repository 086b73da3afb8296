package utils

import (
	"testing"
)

func TestSanitizeEmail(t *testing.T) {
	t.Run("with different formats", func(t *testing.T) {
		email := SanitizeEmail("\nTest@Example.COM")
		if email != "test@example.com" {
			t.Errorf("unexpected email: %s", email)
		}

		email = SanitizeEmail("  \n test@example.com \n\r")
		if email != "test@example.com" {
			t.Errorf("unexpected email: %s", email)
		}

		email = SanitizeEmail("test@example.com")
		if email != "test@example.com" {
			t.Errorf("unexpected email: %s", email)
		}
	})
}

func TestCheckEmailFormat(t *testing.T) {
	t.Run("with invalid addresses", func(t *testing.T) {
		for _, email := range []string{"", "test", "test@", "@example.com", "test@example"} {
			if CheckEmailFormat(email) {
				t.Errorf("should be invalid: %s", email)
			}
		}
	})
	t.Run("with valid addresses", func(t *testing.T) {
		for _, email := range []string{"test@example.com", "first.last+tag@sub.example.org"} {
			if !CheckEmailFormat(email) {
				t.Errorf("should be valid: %s", email)
			}
		}
	})
}

func TestCheckPhoneFormat(t *testing.T) {
	t.Run("with invalid numbers", func(t *testing.T) {
		for _, phone := range []string{"", "12345", "0023456789", "+4412345678"} {
			if CheckPhoneFormat(phone) {
				t.Errorf("should be invalid: %s", phone)
			}
		}
	})
	t.Run("with valid numbers", func(t *testing.T) {
		for _, phone := range []string{"0612345678", "+33612345678"} {
			if !CheckPhoneFormat(phone) {
				t.Errorf("should be valid: %s", phone)
			}
		}
	})
}

func TestBlurEmailAddress(t *testing.T) {
	t.Run("with different formats", func(t *testing.T) {
		email := BlurEmailAddress("a@test.de")
		if email != "a****@test.de" {
			t.Errorf("unexpected email: %s", email)
		}

		email = BlurEmailAddress("a1234@test.de")
		if email != "a****@test.de" {
			t.Errorf("unexpected email: %s", email)
		}
	})
}

func TestPasswordPolicy(t *testing.T) {
	t.Run("with a too short password", func(t *testing.T) {
		if DefaultPasswordPolicy.IsValid("aB1!x") {
			t.Error("should be false")
		}
	})
	t.Run("with missing character classes", func(t *testing.T) {
		if DefaultPasswordPolicy.IsValid("alllowercase1!") {
			t.Error("should be false")
		}
		if DefaultPasswordPolicy.IsValid("NoNumbers!!") {
			t.Error("should be false")
		}
		if DefaultPasswordPolicy.IsValid("NoSpecial123") {
			t.Error("should be false")
		}
	})
	t.Run("with good passwords", func(t *testing.T) {
		if !DefaultPasswordPolicy.IsValid("Str0ng!Pass") {
			t.Error("should be true")
		}
		if !DefaultPasswordPolicy.IsValid("An0ther-G00d_one") {
			t.Error("should be true")
		}
	})
	t.Run("description is not empty", func(t *testing.T) {
		if DefaultPasswordPolicy.Description() == "" {
			t.Error("should have a description")
		}
	})
}

func TestIsPasswordOnBlocklist(t *testing.T) {
	blockedPasswords = map[string]struct{}{"Bl0cked!Pass": {}}
	if !IsPasswordOnBlocklist("Bl0cked!Pass") {
		t.Error("should be on blocklist")
	}
	if IsPasswordOnBlocklist("Str0ng!Pass") {
		t.Error("should not be on blocklist")
	}
}
