package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/ipforge/internal/ctxlog"
	"github.com/specialistvlad/ipforge/internal/descriptor"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// bodyAttrs evaluates every attribute of a block body into entry attributes.
// Manifests are static, so no evaluation context is available. A group body
// also holds its item blocks; nested names the only block type allowed there.
func bodyAttrs(body hcl.Body, nested string) (descriptor.Attrs, error) {
	attrs := descriptor.Attrs{}
	if body == nil {
		return attrs, nil
	}
	hclAttrs, diags := justAttributes(body, nested)
	if diags.HasErrors() {
		return nil, diags
	}
	for name, attr := range hclAttrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		attrs[name] = val
	}
	return attrs, nil
}

// justAttributes works around JustAttributes rejecting every block, including
// the ones already consumed by the decoder.
func justAttributes(body hcl.Body, nested string) (hcl.Attributes, hcl.Diagnostics) {
	syntaxBody, ok := body.(*hclsyntax.Body)
	if !ok || nested == "" {
		return body.JustAttributes()
	}
	for _, b := range syntaxBody.Blocks {
		if b.Type != nested {
			return nil, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  fmt.Sprintf("Unexpected %q block", b.Type),
				Detail:   fmt.Sprintf("Only %q blocks are allowed here.", nested),
				Subject:  b.TypeRange.Ptr(),
			}}
		}
	}
	attrs := make(hcl.Attributes, len(syntaxBody.Attributes))
	for name, attr := range syntaxBody.Attributes {
		attrs[name] = attr.AsHCLAttribute()
	}
	return attrs, nil
}

// orderedPairs evaluates an object expression into key/value string pairs in
// source order. Values are rendered as they would appear in Verilog.
func orderedPairs(expr hcl.Expression) ([][2]string, error) {
	items, diags := hcl.ExprMap(expr)
	if diags.HasErrors() {
		return nil, diags
	}

	var out [][2]string
	for _, item := range items {
		key, diags := item.Key.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		val, diags := item.Value.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		k, err := ctyString(key)
		if err != nil {
			return nil, fmt.Errorf("key: %w", err)
		}
		v, err := ctyString(val)
		if err != nil {
			return nil, fmt.Errorf("value of %q: %w", k, err)
		}
		out = append(out, [2]string{k, v})
	}
	return out, nil
}

func ctyString(v cty.Value) (string, error) {
	if v.IsNull() || !v.IsKnown() {
		return "", fmt.Errorf("value must be known and non-null")
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", fmt.Errorf("cannot convert %s to string: %w", v.Type().FriendlyName(), err)
	}
	return s.AsString(), nil
}

// isExprDefined checks if an HCL expression was actually present in the source.
// The decoder populates omitted optional expressions with zero-width
// placeholders, so a nil check is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	defined := r.End.Byte > r.Start.Byte
	ctxlog.FromContext(ctx).Debug("Checking if HCL attribute was explicitly defined.", "attribute", attrName, "hcl_range", r.String(), "is_defined", defined)
	return defined
}
