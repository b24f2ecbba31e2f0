package shared

// Asset inventory permissions declared for RBAC.
const (
	PermAssetsView    = "assets:view"
	PermAssetsViewOwn = "assets:view:own"
	PermAssetsEdit    = "assets:edit"
	PermAssetsAssign  = "assets:assign"
)

// AssetScopes lists all permissions related to the asset module.
func AssetScopes() []string {
	return []string{
		PermAssetsView,
		PermAssetsViewOwn,
		PermAssetsEdit,
		PermAssetsAssign,
	}
}
