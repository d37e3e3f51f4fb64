// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	mc := NewMemoryCache().WithClock(func() time.Time { return now })
	ctx := context.Background()

	if err := mc.Set(ctx, 1, []byte("card"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}

	now = now.Add(59 * time.Minute)
	if v, ok, _ := mc.Get(ctx, 1); !ok || string(v) != "card" {
		t.Errorf("within TTL: got %q, %v; want hit", v, ok)
	}

	now = now.Add(time.Minute)
	if _, ok, _ := mc.Get(ctx, 1); ok {
		t.Error("expected miss at expiry")
	}
	if mc.Len() != 0 {
		t.Errorf("expired entry not dropped, len %d", mc.Len())
	}
}

func TestMemoryCacheReplaceAndDelete(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()

	mc.Set(ctx, 1, []byte("old"), time.Hour)
	mc.Set(ctx, 1, []byte("new"), time.Hour)
	if v, _, _ := mc.Get(ctx, 1); string(v) != "new" {
		t.Errorf("replace: got %q, want %q", v, "new")
	}

	mc.Delete(ctx, 1)
	if _, ok, _ := mc.Get(ctx, 1); ok {
		t.Error("expected miss after delete")
	}

	mc.Set(ctx, 2, []byte("a"), time.Hour)
	mc.Set(ctx, 3, []byte("b"), time.Hour)
	mc.Flush(ctx)
	if mc.Len() != 0 {
		t.Errorf("flush: len %d, want 0", mc.Len())
	}
}

func TestMemoryCacheCopiesValues(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()

	buf := []byte("card")
	mc.Set(ctx, 1, buf, time.Hour)
	buf[0] = 'X'

	v, _, _ := mc.Get(ctx, 1)
	if string(v) != "card" {
		t.Errorf("stored value aliased caller buffer: %q", v)
	}
	v[0] = 'Y'
	v2, _, _ := mc.Get(ctx, 1)
	if string(v2) != "card" {
		t.Errorf("returned value aliased storage: %q", v2)
	}
}
