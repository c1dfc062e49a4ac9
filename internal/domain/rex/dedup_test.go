package rex

import "testing"

func TestASINFromURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://www.amazon.com/dp/B00X4WHP5E", "B00X4WHP5E"},
		{"https://www.amazon.com/Some-Product/dp/b00x4whp5e/ref=sr_1_1?k=v", "B00X4WHP5E"},
		{"https://www.amazon.com/gp/product/0316769487", "0316769487"},
		{"https://www.amazon.com/s?k=headphones", ""},
		{"", ""},
		{"not a url", ""},
	}
	for _, tc := range tests {
		if got := ASINFromURL(tc.in); got != tc.want {
			t.Errorf("ASINFromURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestByAmazonProduct(t *testing.T) {
	a := Rex{AmazonURL: AmazonProductURL("B00X4WHP5E")}
	b := Rex{MediaURL: "https://www.amazon.com/Foo/dp/B00X4WHP5E?th=1"}
	if ByAmazonProduct(&a) != ByAmazonProduct(&b) {
		t.Errorf("same product produced different keys: %q vs %q", ByAmazonProduct(&a), ByAmazonProduct(&b))
	}
	if got := ByAmazonProduct(&Rex{MediaURL: "https://example.com/x.jpg"}); got != "" {
		t.Errorf("non-amazon rex must have no key, got %q", got)
	}
}

func TestByUserTitle(t *testing.T) {
	a := Rex{UserID: "u1", Title: "Yoga Mat"}
	b := Rex{UserID: "u1", Title: " yoga mat "}
	c := Rex{UserID: "u2", Title: "Yoga Mat"}
	if ByUserTitle(&a) != ByUserTitle(&b) {
		t.Error("case and whitespace must not change the key")
	}
	if ByUserTitle(&a) == ByUserTitle(&c) {
		t.Error("different users must not collide")
	}
}

func TestIsAmazonURL(t *testing.T) {
	if !IsAmazonURL("https://WWW.Amazon.com/dp/X") {
		t.Error("expected amazon url")
	}
	if IsAmazonURL("https://example.com") {
		t.Error("unexpected amazon url")
	}
}

func TestByReview(t *testing.T) {
	withProduct := Rex{UserID: "u", Title: "Great", AmazonURL: AmazonProductURL("B00X4WHP5E")}
	if got, want := ByReview(&withProduct), ByAmazonProduct(&withProduct); got != want {
		t.Errorf("product key must win: %q vs %q", got, want)
	}

	a := Rex{UserID: "u", Title: "Great", Description: "nice"}
	b := Rex{UserID: "u", Title: " GREAT ", Description: "Nice"}
	if ByReview(&a) == "" || ByReview(&a) != ByReview(&b) {
		t.Errorf("same review produced keys %q and %q", ByReview(&a), ByReview(&b))
	}

	other := Rex{UserID: "v", Title: "Great", Description: "nice"}
	if ByReview(&a) == ByReview(&other) {
		t.Error("different authors must not share a key")
	}
}
