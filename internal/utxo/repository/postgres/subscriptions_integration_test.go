package postgres

import (
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
)

func (s *RepositorySuite) TestSubscriptions() {
	s.allowMetrics()

	webhook, err := s.repo.CreateRecipient(s.testCtx, model.Recipient{WebhookURL: "http://hook"})
	s.Require().NoError(err)
	chat, err := s.repo.CreateRecipient(s.testCtx, model.Recipient{ChatID: 42})
	s.Require().NoError(err)

	wallet := int64(9)
	first, err := s.repo.Subscribe(s.testCtx, "addr1", &wallet, webhook)
	s.Require().NoError(err)
	again, err := s.repo.Subscribe(s.testCtx, "addr1", nil, webhook)
	s.Require().NoError(err)
	s.Equal(first, again)
	_, err = s.repo.Subscribe(s.testCtx, "addr1", nil, chat)
	s.Require().NoError(err)

	subs, err := s.repo.SubscriptionsByAddress(s.testCtx, "addr1")
	s.Require().NoError(err)
	s.Require().Len(subs, 2)
	s.Equal("http://hook", subs[0].Recipient.WebhookURL)
	s.Require().NotNil(subs[0].WalletID)
	s.Equal(wallet, *subs[0].WalletID)
	s.Equal(int64(42), subs[1].Recipient.ChatID)
	s.True(subs[0].Recipient.Valid)
	s.False(subs[0].LiveSocketEnabled)

	tracked, err := s.repo.TrackedAddresses(s.testCtx, []string{"addr1", "addr2"})
	s.Require().NoError(err)
	s.Equal(map[string]struct{}{"addr1": {}}, tracked)

	s.Require().NoError(s.repo.SetLiveSocketEnabled(s.testCtx, "addr1", true))
	s.Require().NoError(s.repo.InvalidateRecipient(s.testCtx, webhook))
	s.Require().NoError(s.repo.InvalidateRecipient(s.testCtx, webhook))

	subs, err = s.repo.SubscriptionsByAddress(s.testCtx, "addr1")
	s.Require().NoError(err)
	s.True(subs[0].LiveSocketEnabled)
	s.False(subs[0].Recipient.Valid)
	s.True(subs[1].Recipient.Valid)

	s.Require().NoError(s.repo.Unsubscribe(s.testCtx, "addr1", chat))
	subs, err = s.repo.SubscriptionsByAddress(s.testCtx, "addr1")
	s.Require().NoError(err)
	s.Len(subs, 1)
}
