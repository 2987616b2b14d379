package cli

func regCommands() {
	//Store
	storeCmd.AddCommand(store_executeCmd)

	//Identity
	identityCmd.AddCommand(identity_newCmd)
	identityCmd.AddCommand(identity_listCmd)

	//Root
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(identityCmd)
	rootCmd.AddCommand(serveCmd)
}
