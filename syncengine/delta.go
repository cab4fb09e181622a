package syncengine

import "github.com/go-caldav/sync/model"

// ItemDeltaKind is one of the six outcomes item-delta computation can
// assign to a URL (§4.4.2).
type ItemDeltaKind string

const (
	ItemRemoteAddition     ItemDeltaKind = "remote_addition"
	ItemRemoteModification ItemDeltaKind = "remote_modification"
	ItemLocalModification  ItemDeltaKind = "local_modification"
	ItemRemoteDeletion     ItemDeltaKind = "remote_deletion"
	ItemLocalAddition      ItemDeltaKind = "local_addition"
	ItemLocalDeletion      ItemDeltaKind = "local_deletion"
)

type ItemDelta struct {
	Kind      ItemDeltaKind
	URL       string
	RemoteTag model.VersionTag // meaningful for *Addition and *Modification
}

// computeItemDelta compares a calendar's local items (tasks and events
// alike, since both implement Syncable and the engine treats them
// identically for sync-state purposes) against the remote's item->tag map,
// per §4.4.2. urlReuseLog receives URLs that look like a NotSynced local
// item reusing a URL the server also reports — the caller logs and skips
// these.
func computeItemDelta(localItems map[string]model.Syncable, remoteTags map[string]model.VersionTag, urlReuseLog *[]string) []ItemDelta {
	var deltas []ItemDelta
	remaining := make(map[string]struct{}, len(localItems))
	for url := range localItems {
		remaining[url] = struct{}{}
	}

	for url, remoteTag := range remoteTags {
		delete(remaining, url)
		item, ok := localItems[url]
		if !ok {
			deltas = append(deltas, ItemDelta{Kind: ItemRemoteAddition, URL: url, RemoteTag: remoteTag})
			continue
		}
		status := item.SyncStatus()
		switch status.Kind {
		case model.StatusNotSynced:
			if urlReuseLog != nil {
				*urlReuseLog = append(*urlReuseLog, url)
			}
		case model.StatusSynced:
			if remoteTag != status.Tag {
				deltas = append(deltas, ItemDelta{Kind: ItemRemoteModification, URL: url, RemoteTag: remoteTag})
			}
		case model.StatusLocallyModified:
			if remoteTag == status.Tag {
				deltas = append(deltas, ItemDelta{Kind: ItemLocalModification, URL: url})
			} else {
				deltas = append(deltas, ItemDelta{Kind: ItemRemoteModification, URL: url, RemoteTag: remoteTag})
			}
		case model.StatusLocallyDeleted:
			if remoteTag == status.Tag {
				deltas = append(deltas, ItemDelta{Kind: ItemLocalDeletion, URL: url})
			} else {
				deltas = append(deltas, ItemDelta{Kind: ItemRemoteModification, URL: url, RemoteTag: remoteTag})
			}
		}
	}

	for url := range remaining {
		switch localItems[url].SyncStatus().Kind {
		case model.StatusSynced, model.StatusLocallyDeleted, model.StatusLocallyModified:
			deltas = append(deltas, ItemDelta{Kind: ItemRemoteDeletion, URL: url})
		case model.StatusNotSynced:
			deltas = append(deltas, ItemDelta{Kind: ItemLocalAddition, URL: url})
		}
	}
	return deltas
}

// PropDeltaKind mirrors ItemDeltaKind for properties, whose "remote tag" is
// the remote property's own value (§4.4.3).
type PropDeltaKind string

const (
	PropRemoteAddition     PropDeltaKind = "remote_addition"
	PropRemoteModification PropDeltaKind = "remote_modification"
	PropLocalModification  PropDeltaKind = "local_modification"
	PropRemoteDeletion     PropDeltaKind = "remote_deletion"
	PropLocalAddition      PropDeltaKind = "local_addition"
	PropLocalDeletion      PropDeltaKind = "local_deletion"
)

type PropDelta struct {
	Kind       PropDeltaKind
	Name       model.NSN
	RemoteProp *model.Property // meaningful for *Addition and *Modification
}

func computePropertyDelta(localProps map[model.NSN]*model.Property, remoteProps map[model.NSN]*model.Property, urlReuseLog *[]model.NSN) []PropDelta {
	var deltas []PropDelta
	remaining := make(map[model.NSN]struct{}, len(localProps))
	for name := range localProps {
		remaining[name] = struct{}{}
	}

	for name, remoteProp := range remoteProps {
		delete(remaining, name)
		p, ok := localProps[name]
		if !ok {
			deltas = append(deltas, PropDelta{Kind: PropRemoteAddition, Name: name, RemoteProp: remoteProp})
			continue
		}
		status := p.SyncStatus()
		remoteTag := remoteProp.Tag()
		switch status.Kind {
		case model.StatusNotSynced:
			if urlReuseLog != nil {
				*urlReuseLog = append(*urlReuseLog, name)
			}
		case model.StatusSynced:
			if remoteTag != status.Tag {
				deltas = append(deltas, PropDelta{Kind: PropRemoteModification, Name: name, RemoteProp: remoteProp})
			}
		case model.StatusLocallyModified:
			if remoteTag == status.Tag {
				deltas = append(deltas, PropDelta{Kind: PropLocalModification, Name: name})
			} else {
				deltas = append(deltas, PropDelta{Kind: PropRemoteModification, Name: name, RemoteProp: remoteProp})
			}
		case model.StatusLocallyDeleted:
			if remoteTag == status.Tag {
				deltas = append(deltas, PropDelta{Kind: PropLocalDeletion, Name: name})
			} else {
				deltas = append(deltas, PropDelta{Kind: PropRemoteModification, Name: name, RemoteProp: remoteProp})
			}
		}
	}

	for name := range remaining {
		switch localProps[name].SyncStatus().Kind {
		case model.StatusSynced, model.StatusLocallyDeleted, model.StatusLocallyModified:
			deltas = append(deltas, PropDelta{Kind: PropRemoteDeletion, Name: name})
		case model.StatusNotSynced:
			deltas = append(deltas, PropDelta{Kind: PropLocalAddition, Name: name})
		}
	}
	return deltas
}
