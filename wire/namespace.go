package wire

import "github.com/beevik/etree"

// Namespace constants for the CalDAV/WebDAV elements this package builds
// and parses.
const (
	DAV            = "DAV:"
	CalDAV         = "urn:ietf:params:xml:ns:caldav"
	CalendarServer = "http://calendarserver.org/ns/"
	AppleICal      = "http://apple.com/ns/ical/"
)

var nsPrefix = map[string]string{
	DAV:            "D",
	CalDAV:         "C",
	CalendarServer: "CS",
	AppleICal:      "A",
}

// createElementNS creates a child element qualified by namespace, reusing
// the conventional prefix table above for well-known namespaces. For an
// arbitrary namespace (e.g. a caller-defined property NSN) it declares the
// namespace inline on the element itself with a synthetic "X:" prefix,
// which is valid XML and needs no coordination with the request root.
func createElementNS(parent *etree.Element, ns, local string) *etree.Element {
	if prefix, ok := nsPrefix[ns]; ok && prefix != "" {
		e := parent.CreateElement(prefix + ":" + local)
		e.Space = prefix
		return e
	}
	e := parent.CreateElement("X:" + local)
	e.Space = "X"
	e.CreateAttr("xmlns:X", ns)
	return e
}

func addStandardNamespaces(root *etree.Element) {
	root.CreateAttr("xmlns:D", DAV)
	root.CreateAttr("xmlns:C", CalDAV)
	root.CreateAttr("xmlns:CS", CalendarServer)
	root.CreateAttr("xmlns:A", AppleICal)
}

// matchesNS reports whether an element's effective namespace (its own
// Space resolved against the prefix table, falling back to DAV for bare
// elements) equals ns, and its local tag equals local.
func matchesNS(el *etree.Element, ns, local string) bool {
	if el.Tag != local {
		return false
	}
	space := el.Space
	if space == "" {
		return ns == DAV
	}
	return nsPrefix[ns] == space || space == ns
}

func findChildNS(parent *etree.Element, ns, local string) *etree.Element {
	for _, child := range parent.ChildElements() {
		if matchesNS(child, ns, local) {
			return child
		}
	}
	return nil
}

// resolveElementNS walks up from el looking for an "xmlns:<prefix>" (or,
// for an unprefixed element, a bare "xmlns") declaration, returning the
// namespace URI it was declared against. Falls back to the well-known
// prefix table, then to the prefix string itself.
func resolveElementNS(el *etree.Element) string {
	prefix := el.Space
	attrName := "xmlns"
	if prefix != "" {
		attrName = "xmlns:" + prefix
	}
	for cur := el; cur != nil; cur = cur.Parent() {
		for _, a := range cur.Attr {
			if a.Key == attrName || (a.Space == "xmlns" && a.Key == prefix) {
				return a.Value
			}
		}
	}
	if prefix == "" {
		return DAV
	}
	for ns, p := range nsPrefix {
		if p == prefix {
			return ns
		}
	}
	return prefix
}
